package cache

import "testing"

func TestRequestKey_OrderIndependent(t *testing.T) {
	a := RequestKey("/api/item/view",
		map[string]string{"api": "3", "format": "json", "account": "a1"},
		map[string]string{"id": "7", "fields": "title"})
	b := RequestKey("/api/item/view",
		map[string]string{"account": "a1", "format": "json", "api": "3"},
		map[string]string{"fields": "title", "id": "7"})

	if a != b {
		t.Errorf("keys differ:\n%s\n%s", a, b)
	}
	want := "s1:request:/api/item/view?account=a1&api=3&format=json#fields=title&id=7"
	if a != want {
		t.Errorf("RequestKey() = %q, want %q", a, want)
	}
}

func TestRequestKey_ArgumentsMatter(t *testing.T) {
	a := RequestKey("/api/item/view", nil, map[string]string{"id": "7"})
	b := RequestKey("/api/item/view", nil, map[string]string{"id": "8"})
	if a == b {
		t.Error("different arguments must yield different keys")
	}
}

func TestRolesKey(t *testing.T) {
	if got := RolesKey("user", "u1"); got != "s1:roles:user:u1" {
		t.Errorf("RolesKey() = %q", got)
	}
}

func TestTokensKey_SortsAccounts(t *testing.T) {
	accounts := []string{"b", "a"}
	got := TokensKey("application", "app", "", accounts)
	if got != "s1:tokens:application:app::a|b" {
		t.Errorf("TokensKey() = %q", got)
	}
	if accounts[0] != "b" {
		t.Error("TokensKey must not reorder the caller's slice")
	}
}
