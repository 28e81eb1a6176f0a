package domain

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestUser_ProfilePhotoJSON(t *testing.T) {
	cases := []struct {
		photo PhotoRef
		want  string
	}{
		{"", `"profilePhoto":null`},
		{"https://res.example.com/demo/image/upload/v1/profile-photos/abc", `"profilePhoto":"https://res.example.com/demo/image/upload/v1/profile-photos/abc"`},
	}

	for _, tc := range cases {
		b, err := json.Marshal(&User{ID: "u1", ProfilePhoto: tc.photo})
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if !strings.Contains(string(b), tc.want) {
			t.Fatalf("expected %s in %s", tc.want, b)
		}
	}
}

func TestUser_PasswordHashNeverSerialized(t *testing.T) {
	b, _ := json.Marshal(&User{PasswordHash: "secret-hash"})
	if strings.Contains(string(b), "secret-hash") {
		t.Fatalf("password hash leaked: %s", b)
	}
}
