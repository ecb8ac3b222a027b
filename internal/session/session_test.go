package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yarncraft/storefront/internal/api"
	"github.com/yarncraft/storefront/internal/localstore"
	"github.com/yarncraft/storefront/internal/session"
	"github.com/yarncraft/storefront/pkg/testutil"
)

func newSession(t *testing.T, server *testutil.Server, local localstore.Store) *session.Store {
	t.Helper()
	store := session.New(local, zerolog.Nop())
	client, err := api.New(api.Config{
		BaseURL: server.URL(),
		Tokens:  store,
		Logger:  zerolog.Nop(),
	})
	require.NoError(t, err)
	store.Bind(client)
	return store
}

func TestLogin_ResolvesAndPersists(t *testing.T) {
	server := testutil.NewServer()
	defer server.Close()
	server.Accounts["alice@example.com:secret"] = "tok-alice"
	server.Profiles["tok-alice"] = api.Profile{ID: 1, Name: "Alice", Email: "alice@example.com", Role: api.RoleCustomer}

	local := localstore.NewMemory()
	store := newSession(t, server, local)

	require.NoError(t, store.Login(context.Background(), "alice@example.com", "secret"))

	id, ok := store.Identity()
	require.True(t, ok)
	assert.Equal(t, "Alice", id.Name)
	assert.Equal(t, api.RoleCustomer, id.Role)
	assert.True(t, store.Resolved())

	raw, ok, err := local.Get(localstore.KeyToken)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "tok-alice", string(raw))
}

func TestLogin_RejectionSurfacesServerMessage(t *testing.T) {
	server := testutil.NewServer()
	defer server.Close()

	store := newSession(t, server, localstore.NewMemory())
	err := store.Login(context.Background(), "alice@example.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, "Invalid email or password", api.ServerMessage(err, ""))

	if _, ok := store.Identity(); ok {
		t.Error("failed login must not produce an identity")
	}
}

func TestRegister_IssuesTokenAndResolves(t *testing.T) {
	server := testutil.NewServer()
	defer server.Close()

	local := localstore.NewMemory()
	store := newSession(t, server, local)

	require.NoError(t, store.Register(context.Background(), "Carol", "carol@example.com", "pw", api.RoleCustomer))

	id, ok := store.Identity()
	require.True(t, ok)
	assert.Equal(t, "Carol", id.Name)
	assert.Equal(t, api.RoleCustomer, id.Role)

	require.Len(t, server.Registrations, 1)
	assert.Equal(t, api.RoleCustomer, server.Registrations[0].Role)

	if _, ok, _ := local.Get(localstore.KeyToken); !ok {
		t.Error("registration must persist the issued credential")
	}
}

func TestRegister_VendorRoleReachesTheWire(t *testing.T) {
	server := testutil.NewServer()
	defer server.Close()

	store := newSession(t, server, localstore.NewMemory())
	require.NoError(t, store.Register(context.Background(), "Dana", "dana@example.com", "pw", api.RoleVendor))

	require.Len(t, server.Registrations, 1)
	assert.Equal(t, api.RoleVendor, server.Registrations[0].Role)

	id, ok := store.Identity()
	require.True(t, ok)
	assert.Equal(t, api.RoleVendor, id.Role)
}

func TestRegister_DuplicateEmailSurfacesServerMessage(t *testing.T) {
	server := testutil.NewServer()
	defer server.Close()
	server.Accounts["carol@example.com:pw"] = "tok-carol"

	store := newSession(t, server, localstore.NewMemory())
	err := store.Register(context.Background(), "Carol", "carol@example.com", "pw", api.RoleCustomer)
	require.Error(t, err)
	assert.Equal(t, "Email already registered", api.ServerMessage(err, ""))

	if _, ok := store.Identity(); ok {
		t.Error("failed registration must not produce an identity")
	}
}

func TestResolve_RehydratedCredential(t *testing.T) {
	server := testutil.NewServer()
	defer server.Close()
	server.Profiles["tok-bob"] = api.Profile{ID: 2, Name: "Bob", Role: api.RoleVendor}

	local := localstore.NewMemory()
	require.NoError(t, local.Set(localstore.KeyToken, []byte("tok-bob")))

	store := newSession(t, server, local)
	assert.False(t, store.Resolved(), "fresh store must not claim resolution")

	store.Resolve(context.Background())
	id, ok := store.Identity()
	require.True(t, ok)
	assert.Equal(t, api.RoleVendor, id.Role)
}

func TestResolve_FailureIsSilentAndLeavesLoggedOut(t *testing.T) {
	server := testutil.NewServer()
	defer server.Close()
	server.Fail("GET /users/me", 500, "boom")

	local := localstore.NewMemory()
	require.NoError(t, local.Set(localstore.KeyToken, []byte("tok-x")))

	store := newSession(t, server, local)
	store.Resolve(context.Background())

	if _, ok := store.Identity(); ok {
		t.Error("identity must stay absent on resolution failure")
	}
	assert.True(t, store.Resolved(), "resolution must complete even on failure")
}

func TestResolve_ExpiredJWTSkipsNetwork(t *testing.T) {
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	}).SignedString([]byte("test-key"))
	require.NoError(t, err)

	server := testutil.NewServer()
	defer server.Close()
	// If the store did hit the network this profile would resolve, so an
	// absent identity proves the expired-token fast path fired.
	server.Profiles[expired] = api.Profile{ID: 9, Name: "Ghost"}

	local := localstore.NewMemory()
	require.NoError(t, local.Set(localstore.KeyToken, []byte(expired)))

	store := newSession(t, server, local)
	store.Resolve(context.Background())

	if _, ok := store.Identity(); ok {
		t.Error("expired credential must resolve to absent identity")
	}
	assert.True(t, store.Resolved())
}

func TestLogout_ClearsCredentialAndIdentityTogether(t *testing.T) {
	server := testutil.NewServer()
	defer server.Close()
	server.Accounts["a@b.c:pw"] = "tok"
	server.Profiles["tok"] = api.Profile{ID: 1, Name: "A", Role: api.RoleCustomer}

	local := localstore.NewMemory()
	store := newSession(t, server, local)
	require.NoError(t, store.Login(context.Background(), "a@b.c", "pw"))

	store.Logout()

	if _, ok := store.Identity(); ok {
		t.Error("identity must be absent after logout")
	}
	assert.Empty(t, store.Token())
	if _, ok, _ := local.Get(localstore.KeyToken); ok {
		t.Error("persisted credential must be gone after logout")
	}
}
