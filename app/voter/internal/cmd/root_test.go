package cmd

import "testing"

func TestValidateVote(t *testing.T) {
	tests := []struct {
		vote    int
		wantErr bool
	}{
		{vote: 0, wantErr: false},
		{vote: 1, wantErr: false},
		{vote: -1, wantErr: true},
		{vote: 2, wantErr: true},
	}

	for _, tt := range tests {
		err := validateVote(tt.vote)
		if (err != nil) != tt.wantErr {
			t.Errorf("validateVote(%d): err = %v, wantErr %v", tt.vote, err, tt.wantErr)
		}
	}
}
