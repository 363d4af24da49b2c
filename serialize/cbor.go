// Package serialize persists a compiled core.Database to a compact binary
// form, so an embedder can ship the compiled artifact instead of the
// compiler (spec §1: "offline compiler, embeddable deterministic runtime").
package serialize

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/mod/semver"

	"github.com/aledsdavies/weave/config"
	"github.com/aledsdavies/weave/core"
)

// FormatVersion is stamped into every envelope. Decode refuses any payload
// whose major version doesn't match — the wire shape is allowed to gain
// fields across minor versions, never to change meaning within one major.
const FormatVersion = "v1.0.0"

// envelope is the exported, CBOR-friendly mirror of a Database. Every field
// of core.Block, core.Section, and config.Config is already exported, so
// they round-trip through cbor.Marshal without a second shadow type.
type envelope struct {
	FormatVersion string
	Strings       []string
	Blocks        []core.Block
	Sections      []core.Section
	Config        *config.Config
}

// Encode serializes db to CBOR.
func Encode(db *core.Database) ([]byte, error) {
	env := envelope{
		FormatVersion: FormatVersion,
		Strings:       db.Strings(),
		Blocks:        db.Blocks(),
		Sections:      db.Sections(),
		Config:        db.Config(),
	}
	out, err := cbor.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("serialize: encode: %w", err)
	}
	return out, nil
}

// Decode reconstructs a Database from a payload produced by Encode. It
// rejects a payload from an incompatible major format version and
// re-validates every structural invariant before returning, so a corrupted
// or hand-edited payload fails loudly instead of crashing the runtime later.
func Decode(data []byte) (*core.Database, error) {
	var env envelope
	if err := cbor.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("serialize: decode: %w", err)
	}
	if semver.Major(normalizeVersion(env.FormatVersion)) != semver.Major(normalizeVersion(FormatVersion)) {
		return nil, fmt.Errorf("serialize: incompatible format version %q, runtime expects %q", env.FormatVersion, FormatVersion)
	}

	db := core.FromParts(env.Strings, env.Blocks, env.Sections, env.Config)
	if err := db.CheckInvariants(); err != nil {
		return nil, fmt.Errorf("serialize: decoded database failed invariant checks: %w", err)
	}
	return db, nil
}

// normalizeVersion prefixes a bare "1.0.0"-style string with "v", since
// golang.org/x/mod/semver requires the leading "v" FormatVersion already
// carries but a hand-written payload might omit.
func normalizeVersion(v string) string {
	if len(v) == 0 || v[0] != 'v' {
		return "v" + v
	}
	return v
}
