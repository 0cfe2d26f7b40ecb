package entity

// CallerID identifies who issued a request. It is carried through every
// chat operation and logged, but never used to scope data.
type CallerID string

const AnonymousCaller CallerID = "anonymous"

func (c CallerID) String() string {
	if c == "" {
		return string(AnonymousCaller)
	}
	return string(c)
}
