package validation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetValidator_Singleton(t *testing.T) {
	require.Same(t, GetValidator(), GetValidator())
}

func TestRegister_Valid(t *testing.T) {
	t.Parallel()

	cases := []RegisterRequest{
		{Username: "alice", Password: "secret", Email: "alice@example.com"},
		{Username: "Bob42", Password: "x", Email: "bob@example.org", Birthday: "1990-01-02"},
		{Username: "abc", Password: "p", Email: "a@b.co", Birthday: "1990-01-02T00:00:00Z"},
	}
	for _, c := range cases {
		require.Empty(t, Register(&c), "%+v", c)
	}
}

func TestRegister_ShortUsernameAndBadEmail(t *testing.T) {
	t.Parallel()

	got := Register(&RegisterRequest{Username: "ab", Password: "x", Email: "bad"})
	require.Len(t, got, 2)

	require.Equal(t, Violation{Location: "body", Param: "Username", Value: "ab", Msg: "Username is required"}, got[0])
	require.Equal(t, Violation{Location: "body", Param: "Email", Value: "bad", Msg: "Email does not appear to be valid"}, got[1])
}

func TestRegister_EachRuleIndependently(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		req   RegisterRequest
		param string
		msg   string
	}{
		{"short username", RegisterRequest{Username: "al", Password: "p", Email: "a@b.co"}, "Username", "Username is required"},
		{"non alphanumeric", RegisterRequest{Username: "al-ice", Password: "p", Email: "a@b.co"}, "Username", "Username contains non alphanumeric characters - not allowed."},
		{"empty password", RegisterRequest{Username: "alice", Email: "a@b.co"}, "Password", "Password is required"},
		{"bad email", RegisterRequest{Username: "alice", Password: "p", Email: "alice"}, "Email", "Email does not appear to be valid"},
		{"bad birthday", RegisterRequest{Username: "alice", Password: "p", Email: "a@b.co", Birthday: "yesterday"}, "Birthday", "Birthday must be a valid date"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Register(&tc.req)
			require.Len(t, got, 1)
			require.Equal(t, tc.param, got[0].Param)
			require.Equal(t, tc.msg, got[0].Msg)
		})
	}
}

// Правила не останавливаются на первом нарушении поля.
func TestRegister_CollectsAllViolations(t *testing.T) {
	t.Parallel()

	got := Register(&RegisterRequest{Username: "a!"})
	params := make([]string, 0, len(got))
	for _, v := range got {
		params = append(params, v.Param)
	}

	require.Equal(t, []string{"Username", "Username", "Password", "Email"}, params)
	require.Contains(t, got.Error(), "Password: Password is required")
}
