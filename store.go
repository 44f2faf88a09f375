package factsdb

import (
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tripledb/factsdb/internal/index"
)

// config holds the options a Store is constructed with.
type config struct {
	capacityHint int
	log          LogWriter
	logger       *zap.Logger
}

// StoreOption configures a Store at construction time.
type StoreOption func(*config)

// WithCapacityHint sizes the backing atom pool. It is a hint, not a hard
// limit.
func WithCapacityHint(n int) StoreOption {
	return func(c *config) { c.capacityHint = n }
}

// WithLog enables write-ahead logging: every successful Add/Remove
// appends a record to w before applying the in-memory mutation.
func WithLog(w LogWriter) StoreOption {
	return func(c *config) { c.log = w }
}

// WithLogger attaches a structured logger. Every log line is tagged with
// the store's id. Defaults to a no-op logger; a nil l also selects the
// no-op logger.
func WithLogger(l *zap.Logger) StoreOption {
	return func(c *config) {
		if l == nil {
			l = zap.NewNop()
		}
		c.logger = l
	}
}

func defaultConfig() *config {
	return &config{capacityHint: 0, logger: zap.NewNop()}
}

// Store owns one AtomPool and the three SPO/POS/OSP indices over Facts,
// plus an optional write-ahead log. All operations assume single-threaded
// use: the Store does no internal locking.
type Store struct {
	id uuid.UUID

	pool *AtomPool
	spo  *index.Index[*Fact]
	pos  *index.Index[*Fact]
	osp  *index.Index[*Fact]

	log    LogWriter
	logger *zap.Logger
}

// NewStore creates an empty Store.
func NewStore(opts ...StoreOption) (*Store, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	s := &Store{
		id:     uuid.New(),
		pool:   NewAtomPool(cfg.capacityHint),
		spo:    index.New(compareSPO),
		pos:    index.New(comparePOS),
		osp:    index.New(compareOSP),
		log:    cfg.log,
		logger: cfg.logger,
	}
	return s, nil
}

// ID returns the store's unique identifier, used to tag structured log
// lines so that multiple coexisting stores can be told apart.
func (s *Store) ID() uuid.UUID {
	return s.id
}

// AddSPO interns subject, predicate, object and adds the resulting Fact.
// See AddFact for the return-value contract.
func (s *Store) AddSPO(subject, predicate, object string) (*Fact, error) {
	return s.AddFact(&Fact{
		S: &Atom{Value: subject},
		P: &Atom{Value: predicate},
		O: &Atom{Value: object},
	})
}

// AddFact adds f to the store, returning the canonical, now-interned
// Fact. If an equal triple already existed, that existing Fact is
// returned and the store is unchanged (add_fact is idempotent on the
// Fact set). f's atoms are read by Value only; they need not already be
// interned.
func (s *Store) AddFact(f *Fact) (*Fact, error) {
	sVal, pVal, oVal := f.S.Value, f.P.Value, f.O.Value

	// Look up by content first (no refcount bump) rather than interning
	// unconditionally: the latter is the original implementation's behavior, but
	// it leaks three usage increments per duplicate add with no
	// compensating unintern (spec.md Open Question, §7). This store takes
	// branch (a): find, then intern only on the insert path.
	lookup := &Fact{S: &Atom{Value: sVal}, P: &Atom{Value: pVal}, O: &Atom{Value: oVal}}
	if existing, ok := s.spo.Find(lookup); ok {
		return existing, nil
	}

	as, err := s.pool.Intern(sVal)
	if err != nil {
		return nil, err
	}
	ap, err := s.pool.Intern(pVal)
	if err != nil {
		s.pool.Unintern(sVal)
		return nil, err
	}
	ao, err := s.pool.Intern(oVal)
	if err != nil {
		s.pool.Unintern(sVal)
		s.pool.Unintern(pVal)
		return nil, err
	}
	interned := newFact(as, ap, ao)

	if s.log != nil {
		if err := s.log.WriteRecord(opAdd, interned); err != nil {
			s.pool.Unintern(sVal)
			s.pool.Unintern(pVal)
			s.pool.Unintern(oVal)
			return nil, NewErrIO("add_fact: write log", err)
		}
	}

	s.spo.Insert(interned)
	s.pos.Insert(interned)
	s.osp.Insert(interned)

	s.logger.Debug("fact added",
		zap.Stringer("store", s.id),
		zap.String("s", sVal), zap.String("p", pVal), zap.String("o", oVal),
	)
	return interned, nil
}

// RemoveSPO removes the fact equal to (subject, predicate, object), if
// present. See RemoveFact for the return-value contract.
func (s *Store) RemoveSPO(subject, predicate, object string) (bool, error) {
	return s.RemoveFact(&Fact{
		S: &Atom{Value: subject},
		P: &Atom{Value: predicate},
		O: &Atom{Value: object},
	})
}

// RemoveFact removes the fact equal to f, if present, and reports
// whether one was removed. A missing fact is a normal false result, not
// an error.
func (s *Store) RemoveFact(f *Fact) (bool, error) {
	lookup := &Fact{S: &Atom{Value: f.S.Value}, P: &Atom{Value: f.P.Value}, O: &Atom{Value: f.O.Value}}

	found, ok := s.spo.Find(lookup)
	if !ok {
		return false, nil
	}

	if s.log != nil {
		if err := s.log.WriteRecord(opRemove, found); err != nil {
			return false, NewErrIO("remove_fact: write log", err)
		}
	}

	s.spo.Remove(found)
	s.pos.Remove(found)
	s.osp.Remove(found)

	s.pool.Unintern(found.S.Value)
	s.pool.Unintern(found.P.Value)
	s.pool.Unintern(found.O.Value)

	s.logger.Debug("fact removed",
		zap.Stringer("store", s.id),
		zap.String("s", found.S.Value), zap.String("p", found.P.Value), zap.String("o", found.O.Value),
	)
	return true, nil
}

// GetSPO looks up the fact equal to (subject, predicate, object).
func (s *Store) GetSPO(subject, predicate, object string) (*Fact, bool) {
	return s.GetFact(&Fact{
		S: &Atom{Value: subject},
		P: &Atom{Value: predicate},
		O: &Atom{Value: object},
	})
}

// GetFact looks up the fact equal to f. It does not mutate atom usage
// counters.
func (s *Store) GetFact(f *Fact) (*Fact, bool) {
	lookup := &Fact{S: &Atom{Value: f.S.Value}, P: &Atom{Value: f.P.Value}, O: &Atom{Value: f.O.Value}}
	return s.spo.Find(lookup)
}

// Count returns the number of distinct facts currently stored.
func (s *Store) Count() uint64 {
	return uint64(s.spo.Len())
}

// withVariable reports whether a pattern component names a variable
// (strings beginning with "?").
func withVariable(component string) bool {
	return strings.HasPrefix(component, "?")
}

// Match is the Pattern Matcher front door: given a triple whose
// components are either literals or "?"-prefixed variable names, it
// chooses an index, computes a half-open-turned-inclusive key range, and
// returns a Cursor configured to enumerate matches. Matched atoms are
// written through bindings on every Cursor.Next.
func (s *Store) Match(bindings Bindings, subject, predicate, object string) *Cursor {
	vs, vp, vo := withVariable(subject), withVariable(predicate), withVariable(object)

	var varS, varP, varO **Atom
	if vs {
		varS = bindings.Get(subject)
	}
	if vp {
		varP = bindings.Get(predicate)
	}
	if vo {
		varO = bindings.Get(object)
	}

	c := &Cursor{}

	switch {
	case !vs && !vp && !vo:
		// with_3: fully bound, single-point lookup on SPO.
		f := &Fact{S: &Atom{Value: subject}, P: &Atom{Value: predicate}, O: &Atom{Value: object}}
		c.init(s.spo, f, f)
		return c

	case vs && vp && vo:
		// with_0: fully unbound, full SPO scan.
		c.init(s.spo, nil, nil)
		c.varS, c.varP, c.varO = varS, varP, varO
		return c

	default:
		// with_1_2: mixed. Pick the index whose ordering lists the fixed
		// positions before the variable ones, per spec.md's selection
		// table: !vs && vo -> SPO; else !vp -> POS; else -> OSP.
		start := &Fact{}
		end := &Fact{}

		if vs {
			start.S, end.S = P_FIRST, P_LAST
		} else {
			start.S, end.S = &Atom{Value: subject}, &Atom{Value: subject}
		}
		if vp {
			start.P, end.P = P_FIRST, P_LAST
		} else {
			start.P, end.P = &Atom{Value: predicate}, &Atom{Value: predicate}
		}
		if vo {
			start.O, end.O = P_FIRST, P_LAST
		} else {
			start.O, end.O = &Atom{Value: object}, &Atom{Value: object}
		}

		var tree *index.Index[*Fact]
		switch {
		case !vs && vo:
			tree = s.spo
		case !vp:
			tree = s.pos
		default:
			tree = s.osp
		}

		c.init(tree, start, end)
		c.varS, c.varP, c.varO = varS, varP, varO
		return c
	}
}
