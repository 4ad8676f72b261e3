// Package callback defines the compact, versioned encoding of answer choices
// carried in chat button payloads.
//
// Format (v1):
//
//	v1:<tag>_<weight>_<index>
//
// tag is "s1" for stage one and "s2" for stage two, weight is a base-10
// integer and index a non-negative base-10 integer. Decoding is strict: a
// payload is accepted only if it re-encodes to exactly the same string.
package callback

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/abhisek/sovbot/internal/session"
)

// Version is the current payload version prefix.
const Version = "v1"

// MaxLen is the largest payload accepted, matching Telegram's callback_data limit.
const MaxLen = 64

// ErrMalformed is returned for any payload that is not a valid answer encoding.
var ErrMalformed = errors.New("malformed answer payload")

// Answer is the decoded content of an answer button.
type Answer struct {
	Stage  session.Stage
	Weight int
	Index  int
}

const (
	tagFirst  = "s1"
	tagSecond = "s2"
)

// Encode serializes an answer. Only the first and second stages have tags.
func Encode(a Answer) (string, error) {
	tag, err := stageTag(a.Stage)
	if err != nil {
		return "", err
	}
	if a.Index < 0 {
		return "", fmt.Errorf("encode answer: negative index %d", a.Index)
	}
	s := Version + ":" + tag + "_" + strconv.Itoa(a.Weight) + "_" + strconv.Itoa(a.Index)
	if len(s) > MaxLen {
		return "", fmt.Errorf("encode answer: payload %d bytes exceeds %d", len(s), MaxLen)
	}
	return s, nil
}

// Decode parses a payload produced by Encode.
func Decode(s string) (Answer, error) {
	if len(s) > MaxLen {
		return Answer{}, fmt.Errorf("%w: %d bytes", ErrMalformed, len(s))
	}
	body, ok := strings.CutPrefix(s, Version+":")
	if !ok {
		return Answer{}, fmt.Errorf("%w: missing %s prefix", ErrMalformed, Version)
	}
	parts := strings.Split(body, "_")
	if len(parts) != 3 {
		return Answer{}, fmt.Errorf("%w: want 3 fields, got %d", ErrMalformed, len(parts))
	}

	var a Answer
	switch parts[0] {
	case tagFirst:
		a.Stage = session.StageFirst
	case tagSecond:
		a.Stage = session.StageSecond
	default:
		return Answer{}, fmt.Errorf("%w: unknown stage tag %q", ErrMalformed, parts[0])
	}

	w, err := strconv.Atoi(parts[1])
	if err != nil {
		return Answer{}, fmt.Errorf("%w: weight: %v", ErrMalformed, err)
	}
	idx, err := strconv.Atoi(parts[2])
	if err != nil {
		return Answer{}, fmt.Errorf("%w: index: %v", ErrMalformed, err)
	}
	if idx < 0 {
		return Answer{}, fmt.Errorf("%w: negative index", ErrMalformed)
	}
	a.Weight, a.Index = w, idx

	// Rejects "+3", "007" and other spellings that would alias one answer.
	if canon, _ := Encode(a); canon != s {
		return Answer{}, fmt.Errorf("%w: non-canonical encoding", ErrMalformed)
	}
	return a, nil
}

// IsAnswer reports whether s looks like an answer payload of any version.
// Used to tell answers apart from menu actions before full decoding.
func IsAnswer(s string) bool {
	prefix, _, ok := strings.Cut(s, ":")
	return ok && len(prefix) >= 2 && prefix[0] == 'v'
}

func stageTag(st session.Stage) (string, error) {
	switch st {
	case session.StageFirst:
		return tagFirst, nil
	case session.StageSecond:
		return tagSecond, nil
	default:
		return "", fmt.Errorf("encode answer: stage %s has no questions", st)
	}
}
