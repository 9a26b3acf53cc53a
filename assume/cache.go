package assume

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/xDarkicex/satconf/model"
)

// resultCacheSchemaVersion guards against stale payloads from an earlier
// on-disk format; bump it whenever ResultPayload's shape changes.
const resultCacheSchemaVersion uint16 = 1

// ResultPayload is the serializable form of a Result: symbol pointers don't
// survive a round trip through disk, so the core is flattened to
// name/tristate/string triples keyed against the session at decode time.
type ResultPayload struct {
	Schema  uint16
	Outcome int
	Core    []CoreEntry
}

// CoreEntry is one Assignment reduced to a symbol name, for serialization.
type CoreEntry struct {
	Name string
	Tri  int
	Str  string
}

// ResultCache memoizes Driver.Run outcomes on disk, keyed by the SHA-256 of
// the compiled clause set's fingerprint followed by the proposed assignment
// set. Two runs of the same proposal against the
// same compiled constraint set always solve to the same outcome, so a
// repeated diagnosis probe (the search in package diagnosis revisits
// proposals along different branches) can skip the solver entirely.
type ResultCache struct {
	mu  sync.RWMutex
	dir string
}

// OpenResultCache opens (creating if necessary) a disk cache rooted at
// $XDG_CACHE_HOME/<app>, falling back to ~/.cache/<app>.
func OpenResultCache(app string) (*ResultCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app, "runs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &ResultCache{dir: dir}, nil
}

func assignKey(clauseFingerprint string, assign []Assignment) [32]byte {
	h := sha256.New()
	h.Write([]byte(clauseFingerprint))
	for _, a := range assign {
		h.Write([]byte(a.String()))
		h.Write([]byte{0})
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

func (c *ResultCache) pathFor(key [32]byte) string {
	return filepath.Join(c.dir, hex.EncodeToString(key[:])+".mp")
}

// Get returns a previously cached Result for assign, resolving Core entries
// back against sess. The bool is false on a cache miss.
func (c *ResultCache) Get(sess *model.Session, clauseFingerprint string, assign []Assignment) (Result, bool) {
	if c == nil {
		return Result{}, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(assignKey(clauseFingerprint, assign)))
	if err != nil {
		return Result{}, false
	}
	defer f.Close()

	var payload ResultPayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil || payload.Schema != resultCacheSchemaVersion {
		return Result{}, false
	}

	res := Result{Outcome: Outcome(payload.Outcome)}
	for _, ce := range payload.Core {
		sym, ok := sess.Symbol(ce.Name)
		if !ok {
			return Result{}, false
		}
		res.Core = append(res.Core, Assignment{Sym: sym, Tri: model.Tristate(ce.Tri), Str: ce.Str})
	}
	return res, true
}

// Put stores res under assign's key. Errors are swallowed: a failed cache
// write never affects whether a diagnosis search succeeds, only its speed.
func (c *ResultCache) Put(clauseFingerprint string, assign []Assignment, res Result) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	payload := ResultPayload{Schema: resultCacheSchemaVersion, Outcome: int(res.Outcome)}
	for _, a := range res.Core {
		payload.Core = append(payload.Core, CoreEntry{Name: a.Sym.Name, Tri: int(a.Tri), Str: a.Str})
	}

	p := c.pathFor(assignKey(clauseFingerprint, assign))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return
	}
	tmp, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return
	}
	defer os.Remove(tmp.Name())

	if err := msgpack.NewEncoder(tmp).Encode(&payload); err != nil {
		tmp.Close()
		return
	}
	if err := tmp.Close(); err != nil {
		return
	}
	_ = os.Rename(tmp.Name(), p)
}
