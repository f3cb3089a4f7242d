package scoring

import (
	"fmt"
	"strconv"
	"strings"
)

// IncompleteError lista las preguntas sin responder (índices base 0).
// errors.Is(err, ErrIncompleteResponses) es true.
type IncompleteError struct {
	Missing []int
}

func (e *IncompleteError) Error() string {
	nums := make([]string, 0, len(e.Missing))
	for _, i := range e.Missing {
		nums = append(nums, strconv.Itoa(i+1))
	}
	return fmt.Sprintf("%s: unanswered questions %s", ErrIncompleteResponses, strings.Join(nums, ","))
}

func (e *IncompleteError) Unwrap() error {
	return ErrIncompleteResponses
}
