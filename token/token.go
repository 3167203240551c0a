// Package token generates ownership tokens that identify which process acquired a lock.
package token

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
)

var ErrMalformed = errors.New("kvlock: malformed token")

// Owner is the identity carried inside a token. The nonce makes every token unique even
// when the same process acquires the same key twice.
type Owner struct {
	Host     string    `json:"h" msgpack:"h"`
	PID      int       `json:"p" msgpack:"p"`
	Nonce    string    `json:"n" msgpack:"n"`
	IssuedAt time.Time `json:"t" msgpack:"t"`
}

type Generator struct {
	codec Codec
	host  string
	pid   int
	now   func() time.Time
}

func NewGenerator() *Generator {
	return NewGeneratorWithCodec(NewMsgpackCodec())
}

func NewGeneratorWithCodec(codec Codec) *Generator {
	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}

	return &Generator{
		codec: codec,
		host:  host,
		pid:   os.Getpid(),
		now:   time.Now,
	}
}

// New returns a fresh opaque token.
func (g *Generator) New() (string, error) {
	owner := Owner{
		Host:     g.host,
		PID:      g.pid,
		Nonce:    uuid.NewString(),
		IssuedAt: g.now().UTC().Truncate(time.Millisecond),
	}

	data, err := g.codec.Marshal(&owner)
	if err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(data), nil
}

// Parse decodes a token produced by a generator using the same codec.
func (g *Generator) Parse(token string) (Owner, error) {
	data, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Owner{}, fmt.Errorf("%w: %s", ErrMalformed, err.Error())
	}

	var owner Owner
	if err := g.codec.Unmarshal(data, &owner); err != nil {
		return Owner{}, fmt.Errorf("%w: %s", ErrMalformed, err.Error())
	}

	if owner.Nonce == "" {
		return Owner{}, ErrMalformed
	}

	return owner, nil
}
