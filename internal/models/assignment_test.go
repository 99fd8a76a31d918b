package models

import "testing"

func TestSubmissionCanTransition(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{SubmissionStatusDraft, SubmissionStatusSubmitted, true},
		{SubmissionStatusDraft, SubmissionStatusGraded, false},
		{SubmissionStatusDraft, SubmissionStatusReturned, false},
		{SubmissionStatusSubmitted, SubmissionStatusGraded, true},
		{SubmissionStatusSubmitted, SubmissionStatusReturned, true},
		{SubmissionStatusSubmitted, SubmissionStatusDraft, false},
		{SubmissionStatusGraded, SubmissionStatusReturned, true},
		{SubmissionStatusGraded, SubmissionStatusSubmitted, false},
		{SubmissionStatusReturned, SubmissionStatusSubmitted, true},
		{SubmissionStatusReturned, SubmissionStatusGraded, false},
		{"UNKNOWN", SubmissionStatusSubmitted, false},
	}
	for _, tt := range tests {
		s := &Submission{Status: tt.from}
		if got := s.CanTransition(tt.to); got != tt.want {
			t.Errorf("%s -> %s = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}
