package dto

// ApproveRequest resolves a pending message. Response is what gets sent;
// WasEdited marks that the operator changed the suggested text.
type ApproveRequest struct {
	Response  string `json:"response" binding:"required"`
	WasEdited bool   `json:"was_edited"`
}

// FeedbackRequest attaches operator feedback to a draft.
type FeedbackRequest struct {
	Feedback string `json:"feedback" binding:"required"`
}

// SimulatorAskRequest drafts a reply to a hypothetical question without
// persisting anything.
type SimulatorAskRequest struct {
	Question string `json:"question" binding:"required"`
}

// SimulatorAskResponse is the drafted reply plus the confidence the router
// would have gated on.
type SimulatorAskResponse struct {
	Response   string  `json:"response"`
	Confidence float64 `json:"confidence"`
}

// SimulatorCorrectRequest teaches the expected answer for a question.
type SimulatorCorrectRequest struct {
	Question       string `json:"question" binding:"required"`
	ExpectedAnswer string `json:"expected_answer" binding:"required"`
}

// ApproveResponse reports the disposition outcome. SendError is set when the
// approval persisted but the outbound send failed.
type ApproveResponse struct {
	Status    string `json:"status"`
	SendError string `json:"send_error,omitempty"`
}
