package gate

import "testing"

func TestClassify(t *testing.T) {
	c := NewClassifier()

	cases := []struct {
		path string
		want Tier
	}{
		{"/api/auth/otp/request", TierStrict},
		{"/api/auth/otp/verify", TierStrict},
		{"/api/admin/login", TierStrict},
		{"/api/contact", TierStrict},
		{"/api/admin/settings", TierModerate},
		{"/api/admin/deletion-requests", TierModerate},
		{"/api/auth/me", TierLoose},
		{"/api/auth/logout", TierLoose},
		{"/api/auth/login", TierLoose}, // unregistered path falls through to the default
		{"/api/products", TierLoose},
		{"/healthz", TierLoose},
	}
	for _, tc := range cases {
		if got := c.Classify(tc.path); got != tc.want {
			t.Errorf("Classify(%q) = %s, want %s", tc.path, got, tc.want)
		}
	}
}
