package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsAuthorized(t *testing.T) {
	tests := []struct {
		name    string
		allowed []int64
		userID  int64
		want    bool
	}{
		{"empty list admits everyone", nil, 42, true},
		{"listed user is admitted", []int64{1, 2}, 2, true},
		{"unlisted user is refused", []int64{1, 2}, 3, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewAuthenticator(tt.allowed).IsAuthorized(tt.userID))
		})
	}
}
