package models

// Step names the prompt a conversation is waiting on.
type Step string

const (
	StepAwaitingName         Step = "awaiting_name"
	StepAwaitingBirthYear    Step = "awaiting_birth_year"
	StepAwaitingBirthMonth   Step = "awaiting_birth_month"
	StepAwaitingBirthDay     Step = "awaiting_birth_day"
	StepAwaitingPostcode     Step = "awaiting_postcode"
	StepAwaitingConfirmation Step = "awaiting_confirmation"
)

// IsValid reports whether s is one of the known steps.
func (s Step) IsValid() bool {
	switch s {
	case StepAwaitingName, StepAwaitingBirthYear, StepAwaitingBirthMonth,
		StepAwaitingBirthDay, StepAwaitingPostcode, StepAwaitingConfirmation:
		return true
	}
	return false
}

// CollectedValues accumulates accepted answers. A zero value means the
// answer has not been given yet; every stored value already passed validation.
type CollectedValues struct {
	Name     string `json:"name,omitempty"`
	Year     int    `json:"year,omitempty"`
	Month    int    `json:"month,omitempty"`
	Day      int    `json:"day,omitempty"`
	Postcode string `json:"postcode,omitempty"`
}

// DateOfBirth assembles the collected birth date components.
func (v CollectedValues) DateOfBirth() DateOfBirth {
	return DateOfBirth{Year: v.Year, Month: v.Month, Day: v.Day}
}

// CollectionState is the persisted position of one conversation in the
// profile collection workflow. It is owned by exactly one conversation.
type CollectionState struct {
	Step           Step            `json:"step"`
	Values         CollectedValues `json:"values"`
	RestartMessage string          `json:"restart_message,omitempty"`
}

// NewCollectionState starts a workflow at the first step. restartMessage is
// shown ahead of the first prompt when the workflow was restarted.
func NewCollectionState(restartMessage string) *CollectionState {
	return &CollectionState{Step: StepAwaitingName, RestartMessage: restartMessage}
}

// Turn is one inbound message.
type Turn struct {
	ConversationID string `json:"conversation_id"`
	UserID         string `json:"user_id"`
	Text           string `json:"text"`
}
