package events

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// Payloads are google.protobuf.Struct messages in binary wire format. Numbers
// travel as doubles, so amounts must stay below 2^53.

func encodeFields(fields map[string]any) ([]byte, error) {
	s, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to build payload: %w", err)
	}
	payload, err := proto.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return payload, nil
}

type fieldReader struct {
	fields map[string]*structpb.Value
	err    error
}

func decodeFields(payload []byte) (*fieldReader, error) {
	var s structpb.Struct
	if err := proto.Unmarshal(payload, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
	}
	return &fieldReader{fields: s.GetFields()}, nil
}

func (r *fieldReader) fail(key, format string, args ...any) {
	if r.err == nil {
		r.err = fmt.Errorf("field %q: %s", key, fmt.Sprintf(format, args...))
	}
}

func (r *fieldReader) getString(key string) string {
	v, ok := r.fields[key]
	if !ok {
		r.fail(key, "missing")
		return ""
	}
	sv, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		r.fail(key, "not a string")
		return ""
	}
	return sv.StringValue
}

func (r *fieldReader) getOptionalString(key string) string {
	if _, ok := r.fields[key]; !ok {
		return ""
	}
	return r.getString(key)
}

func (r *fieldReader) getUUID(key string) uuid.UUID {
	raw := r.getString(key)
	if r.err != nil {
		return uuid.Nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		r.fail(key, "invalid uuid %q", raw)
	}
	return id
}

func (r *fieldReader) getOptionalUUID(key string) uuid.UUID {
	if _, ok := r.fields[key]; !ok {
		return uuid.Nil
	}
	return r.getUUID(key)
}

func (r *fieldReader) getInt64(key string) int64 {
	v, ok := r.fields[key]
	if !ok {
		r.fail(key, "missing")
		return 0
	}
	nv, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		r.fail(key, "not a number")
		return 0
	}
	return int64(nv.NumberValue)
}

func (r *fieldReader) getTime(key string) time.Time {
	raw := r.getString(key)
	if r.err != nil {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		r.fail(key, "invalid timestamp %q", raw)
	}
	return t
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
