package performance

const (
	ReviewStatusDraft     = "draft"
	ReviewStatusSubmitted = "submitted"
	ReviewStatusReviewed  = "reviewed"
	ReviewStatusApproved  = "approved"

	GoalStatusNotStarted = "not_started"
	GoalStatusInProgress = "in_progress"
	GoalStatusCompleted  = "completed"
	GoalStatusCancelled  = "cancelled"

	FeedbackTypePeer        = "peer"
	FeedbackTypeSupervisor  = "supervisor"
	FeedbackTypeSubordinate = "subordinate"
	FeedbackTypeSelf        = "self"
)

// reviewLifecycle is the only order a review may move through.
var reviewLifecycle = []string{
	ReviewStatusDraft,
	ReviewStatusSubmitted,
	ReviewStatusReviewed,
	ReviewStatusApproved,
}

var goalStatuses = []string{
	GoalStatusNotStarted,
	GoalStatusInProgress,
	GoalStatusCompleted,
	GoalStatusCancelled,
}

// NextReviewStatus returns the status that follows current, or "" when current is final or unknown.
func NextReviewStatus(current string) string {
	for i, status := range reviewLifecycle {
		if status == current && i+1 < len(reviewLifecycle) {
			return reviewLifecycle[i+1]
		}
	}
	return ""
}

func ValidGoalStatus(status string) bool {
	for _, candidate := range goalStatuses {
		if candidate == status {
			return true
		}
	}
	return false
}
