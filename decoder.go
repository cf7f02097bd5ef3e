package respdecode

import (
	"errors"

	"github.com/raniellyferreira/respdecode/protocol"
)

// Version is the current version of the respdecode library.
const Version = "0.4.0"

// Decoder decodes RESP values with configured limits, logging and metrics.
// It is safe for concurrent use as long as its Logger and MetricsCollector are.
type Decoder struct {
	dec     *protocol.Decoder
	logger  Logger
	metrics MetricsCollector
}

// New creates a Decoder with the given options
func New(opts ...Option) (*Decoder, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	return &Decoder{
		dec:     protocol.NewDecoder(cfg.limits),
		logger:  cfg.logger,
		metrics: cfg.metrics,
	}, nil
}

// Limits returns the limits the decoder enforces
func (d *Decoder) Limits() protocol.Limits {
	return d.dec.Limits()
}

// Decode decodes one value from the front of in and returns it with the
// bytes that follow it. Failures are *protocol.Error values.
func (d *Decoder) Decode(in []byte) (protocol.Value, []byte, error) {
	v, rest, err := d.dec.Decode(in)
	if err != nil {
		d.observeError(err)
		return v, nil, err
	}
	d.metrics.RecordDecoded(v.Type, len(in)-len(rest))
	return v, rest, nil
}

// DecodeAll decodes values back to back until in is exhausted.
//
// A value cut short by the end of in is not an error: decoding stops and
// the undecoded tail is returned so the caller can retry once more bytes
// arrive. Malformed input returns the values decoded before it, the tail
// starting at the bad value, and a *DecodeError.
func (d *Decoder) DecodeAll(in []byte) ([]protocol.Value, []byte, error) {
	var values []protocol.Value
	buf := in
	for len(buf) > 0 {
		v, rest, err := d.Decode(buf)
		if err != nil {
			if protocol.IsIncomplete(err) {
				break
			}
			return values, buf, &DecodeError{
				Index:  len(values),
				Offset: len(in) - len(buf),
				Err:    err,
			}
		}
		values = append(values, v)
		buf = rest
	}
	return values, buf, nil
}

// Skip validates the value at the front of in and returns the bytes after it
func (d *Decoder) Skip(in []byte) ([]byte, error) {
	rest, err := d.dec.Skip(in)
	if err != nil {
		d.observeError(err)
		return nil, err
	}
	return rest, nil
}

func (d *Decoder) observeError(err error) {
	var pe *protocol.Error
	if !errors.As(err, &pe) {
		d.metrics.RecordError("unknown")
		d.logger.Error("decode failed", Field{Key: "error", Value: err})
		return
	}

	d.metrics.RecordError(pe.Kind.String())
	if pe.Kind == protocol.KindMalformed {
		d.logger.Debug("malformed RESP input",
			Field{Key: "offset", Value: pe.Offset},
			Field{Key: "reason", Value: pe.Reason},
		)
	}
}
