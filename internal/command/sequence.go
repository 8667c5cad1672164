package command

import "errors"

var (
	// ErrEndOfSequence is returned by Sequence.Next once every part has been
	// given.
	ErrEndOfSequence = errors.New("end of sequence")

	// ErrSequenceConsumed is returned by Sequence.Next when the Phrase it came
	// from had already given out its parts. Seeing it means there is a bug in
	// the caller. It also matches ErrEndOfSequence, so a loop that stops on
	// the end of a sequence stops on it too.
	ErrSequenceConsumed error = consumedError{}
)

type consumedError struct{}

func (consumedError) Error() string {
	return "phrase parts have already been consumed"
}

func (consumedError) Is(target error) bool {
	return target == ErrEndOfSequence
}

// Sequence is a one-shot iterator over the parts of a Phrase.
type Sequence struct {
	parts []string
	err   error
}

// Next gives the next part. Once the parts are exhausted it returns
// ErrEndOfSequence, and keeps returning it on every call after that.
func (s *Sequence) Next() (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if len(s.parts) < 1 {
		s.err = ErrEndOfSequence
		return "", s.err
	}

	next := s.parts[0]
	s.parts = s.parts[1:]
	return next, nil
}

// All drains the sequence and returns every remaining part. Draining a
// Sequence whose Phrase was already consumed is an error, not an empty result.
func (s *Sequence) All() ([]string, error) {
	var all []string
	for {
		part, err := s.Next()
		if err != nil {
			if errors.Is(err, ErrEndOfSequence) && !errors.Is(err, ErrSequenceConsumed) {
				return all, nil
			}
			return all, err
		}
		all = append(all, part)
	}
}
