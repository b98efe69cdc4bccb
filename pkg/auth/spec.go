package auth

// Spec decides which credentials are accepted. It is either Pairs or a
// Predicate; use SpecFrom to resolve values of unknown shape.
type Spec interface {
	matches(c Credentials) bool
}

// Pair is one allowed username/password combination.
type Pair struct {
	Username string
	Password string
}

// Pairs is an allow-list. Matching is exact and case-sensitive on both fields.
type Pairs []Pair

func (ps Pairs) matches(c Credentials) bool {
	for _, p := range ps {
		if p.Password == c.Pass && p.Username == c.Name {
			return true
		}
	}
	return false
}

// Predicate accepts credentials when it returns true. Its result is used as is.
type Predicate func(c Credentials) bool

func (p Predicate) matches(c Credentials) bool {
	return p(c)
}

// deny is the spec for values SpecFrom could not interpret.
type deny struct{}

func (deny) matches(Credentials) bool { return false }

func validSpec(spec Spec) bool {
	switch s := spec.(type) {
	case nil, deny:
		return false
	case Predicate:
		return s != nil
	}
	return true
}

// Matches reports whether c satisfies spec. A nil or unrecognized spec never matches.
func Matches(c Credentials, spec Spec) bool {
	return validSpec(spec) && spec.matches(c)
}

// SpecFrom converts v into a Spec. Supported shapes are Spec values, []Pair,
// [][2]string, [][]string with exactly two entries per row,
// func(Credentials) bool and func(name, pass string) bool. Anything else
// yields a spec that rejects every credential.
func SpecFrom(v any) Spec {
	switch s := v.(type) {
	case Pairs:
		return s
	case []Pair:
		return Pairs(s)
	case Predicate:
		if s == nil {
			return deny{}
		}
		return s
	case func(Credentials) bool:
		if s == nil {
			return deny{}
		}
		return Predicate(s)
	case func(name, pass string) bool:
		if s == nil {
			return deny{}
		}
		return Predicate(func(c Credentials) bool { return s(c.Name, c.Pass) })
	case [][2]string:
		pairs := make(Pairs, 0, len(s))
		for _, row := range s {
			pairs = append(pairs, Pair{Username: row[0], Password: row[1]})
		}
		return pairs
	case [][]string:
		pairs := make(Pairs, 0, len(s))
		for _, row := range s {
			if len(row) != 2 {
				return deny{}
			}
			pairs = append(pairs, Pair{Username: row[0], Password: row[1]})
		}
		return pairs
	case Spec:
		return s
	}
	return deny{}
}
