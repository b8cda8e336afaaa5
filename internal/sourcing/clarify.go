package sourcing

import "fmt"

// ResponseType classifies a conversational sourcing reply.
type ResponseType string

const (
	ResponseResults                  ResponseType = "results"
	ResponseResultsWithClarification ResponseType = "results_with_clarification"
	ResponseClarification            ResponseType = "clarification"
)

const (
	FieldLocation = "location"
	FieldSkills   = "skills"
)

var clarifyingQuestions = map[string]string{
	FieldLocation: "Which city, region or country should candidates be based in?",
	FieldSkills:   "Which skills or technologies are must-haves for this role?",
}

// ClarificationRequest lists what the recruiter should still tell us.
type ClarificationRequest struct {
	MissingFields []string `json:"missingFields" yaml:"missingFields"`
	Questions     []string `json:"questions" yaml:"questions"`
}

// Reply is the envelope returned to conversational callers.
type Reply struct {
	ResponseType     ResponseType          `json:"responseType" yaml:"responseType"`
	AssistantMessage string                `json:"assistantMessage" yaml:"assistantMessage"`
	Clarification    *ClarificationRequest `json:"clarification" yaml:"clarification"`
	Result           *Result               `json:"result" yaml:"result"`
}

// Clarify wraps a result, asking for location and skills when the criteria lack them.
// Without candidates a clarification reply carries no result.
func Clarify(r *Result) Reply {
	var missing []string
	if len(r.Criteria.Locations) == 0 {
		missing = append(missing, FieldLocation)
	}
	if len(r.Criteria.Skills) == 0 {
		missing = append(missing, FieldSkills)
	}

	if len(missing) == 0 {
		return Reply{ResponseType: ResponseResults, AssistantMessage: resultMessage(r), Result: r}
	}

	clarification := &ClarificationRequest{MissingFields: missing}
	for _, f := range missing {
		clarification.Questions = append(clarification.Questions, clarifyingQuestions[f])
	}

	if len(r.Candidates) == 0 {
		return Reply{
			ResponseType:     ResponseClarification,
			AssistantMessage: "I could not find usable candidates yet. A few details would help me search better.",
			Clarification:    clarification,
		}
	}

	return Reply{
		ResponseType:     ResponseResultsWithClarification,
		AssistantMessage: resultMessage(r) + " A few more details would sharpen the search.",
		Clarification:    clarification,
		Result:           r,
	}
}

func resultMessage(r *Result) string {
	switch n := len(r.Candidates); n {
	case 0:
		return "I could not find candidates matching this request."
	case 1:
		return fmt.Sprintf("I found 1 candidate for %s.", r.Criteria.Role)
	default:
		return fmt.Sprintf("I found %d candidates for %s.", n, r.Criteria.Role)
	}
}
