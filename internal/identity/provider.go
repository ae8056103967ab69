// Package identity provisions the pseudo-anonymous user identifier that
// attributes RSVPs when no account is signed in.  The identifier is
// minted once per device, persisted under a fixed key, and returned
// unchanged forever after.  There is no collision detection, expiry or
// rotation: the identifier is stable for the lifetime of the device
// storage and is not unique across devices for the same human.
package identity

import (
	"crypto/rand"
	"encoding/hex"
	"regexp"
	"strconv"
	"time"

	"github.com/seckc/community-api/internal/localstore"
)

// StorageKey is the fixed device-storage key the identifier lives under.
const StorageKey = "seckc-anonymous-user-id"

// Prefix marks every anonymous identifier so attributed user IDs can be
// told apart from account IDs at a glance.
const Prefix = "anon_"

var idPattern = regexp.MustCompile(`^anon_[0-9a-z]+$`)

// Valid reports whether s has the shape of a minted anonymous
// identifier.  Handlers use it to reject made-up attribution headers.
func Valid(s string) bool { return idPattern.MatchString(s) }

// Provider mints and persists anonymous identifiers.  Storage is
// injected so tests run against an in-memory store instead of the real
// device file.
type Provider struct {
	store localstore.Store
	now   func() time.Time
}

// NewProvider returns a Provider backed by store.
func NewProvider(store localstore.Store) *Provider {
	return &Provider{store: store, now: time.Now}
}

// GetOrCreate returns the device's anonymous identifier, minting and
// persisting a new one on first call.  The first call writes to the
// store; later calls return the stored value unchanged.
func (p *Provider) GetOrCreate() (string, error) {
	if v, ok, err := p.store.Get(StorageKey); err != nil {
		return "", err
	} else if ok && v != "" {
		return v, nil
	}
	id := Generate(p.now())
	if err := p.store.Set(StorageKey, id); err != nil {
		return "", err
	}
	return id, nil
}

// Generate mints an identifier without persisting it: the prefix, 16
// hex characters of entropy and the millisecond timestamp in base 36.
// The server uses this directly when handing identities to clients that
// manage their own persistence.
func Generate(t time.Time) string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means the process is in serious trouble;
		// fall back to the timestamp alone rather than returning an
		// empty identity.
		return Prefix + strconv.FormatInt(t.UnixNano(), 36)
	}
	return Prefix + hex.EncodeToString(buf) + strconv.FormatInt(t.UnixMilli(), 36)
}
