package report

import (
	"fmt"
	"strings"

	"github.com/flarebyte/p4tag/internal/tagged"
)

// Kinds lists the commands whose tagged output can be decoded.
var Kinds = []string{"dirs", "files", "print", "sync", "where"}

// Decode decodes a captured buffer of the given command kind into an
// envelope. Decode failures are returned as *tagged.Error.
func Decode(kind string, data []byte, invocation string) (Envelope, error) {
	switch kind {
	case "dirs":
		s, err := tagged.DecodeDirs(data, invocation)
		if err != nil {
			return Envelope{}, err
		}
		return FromStream(kind, invocation, s), nil
	case "files":
		s, err := tagged.DecodeFiles(data, invocation)
		if err != nil {
			return Envelope{}, err
		}
		return FromStream(kind, invocation, s), nil
	case "print":
		s, err := tagged.DecodePrint(data, invocation)
		if err != nil {
			return Envelope{}, err
		}
		return FromStream(kind, invocation, s), nil
	case "sync":
		s, err := tagged.DecodeSync(data, invocation)
		if err != nil {
			return Envelope{}, err
		}
		return FromStream(kind, invocation, s), nil
	case "where":
		s, err := tagged.DecodeWhere(data, invocation)
		if err != nil {
			return Envelope{}, err
		}
		return FromStream(kind, invocation, s), nil
	default:
		return Envelope{}, fmt.Errorf("unknown command kind: %q (expected one of %s)", kind, strings.Join(Kinds, ", "))
	}
}
