package marker

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Scanner reads a specials stream line by line. Blank lines and
// %-prefixed comment lines are skipped.
type Scanner struct {
	sc   *bufio.Scanner
	line int
	cur  Special
	err  error
}

// NewScanner wraps r in a specials-stream scanner.
func NewScanner(r io.Reader) *Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Scanner{sc: sc}
}

// Scan advances to the next directive. It returns false at end of stream
// or on the first error; check Err afterwards.
func (s *Scanner) Scan() bool {
	if s.err != nil {
		return false
	}
	for s.sc.Scan() {
		s.line++
		text := strings.TrimSpace(s.sc.Text())
		if text == "" || strings.HasPrefix(text, "%") {
			continue
		}
		sp, err := Parse(text)
		if err != nil {
			s.err = fmt.Errorf("line %d: %w", s.line, err)
			return false
		}
		s.cur = sp
		return true
	}
	s.err = s.sc.Err()
	return false
}

// Special returns the directive read by the last successful Scan.
func (s *Scanner) Special() Special {
	return s.cur
}

// Line returns the line number of the last directive.
func (s *Scanner) Line() int {
	return s.line
}

// Err returns the first error encountered, if any.
func (s *Scanner) Err() error {
	return s.err
}
