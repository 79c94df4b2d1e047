package source

import (
	"fmt"
	"strconv"
)

// OffsetCursor is the decoded form of an offset page token.
type OffsetCursor struct {
	offset int
}

func NewOffsetCursor(offset int) *OffsetCursor {
	return &OffsetCursor{offset: offset}
}

// DecodeOffsetCursor parses a token produced by OffsetCursor.String. An empty
// token yields a nil cursor.
func DecodeOffsetCursor(token string) (*OffsetCursor, error) {
	if len(token) == 0 {
		return nil, nil
	}

	offsetBytes, err := _encoder.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 encoded offset cursor: %w", err)
	}

	offset, err := strconv.Atoi(string(offsetBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to decode offset cursor value: %w", err)
	}
	if offset < 0 {
		return nil, fmt.Errorf("negative offset cursor value %d", offset)
	}

	return &OffsetCursor{offset: offset}, nil
}

func (p *OffsetCursor) String() string {
	if p.IsEmpty() {
		return ""
	}

	return _encoder.EncodeToString([]byte(strconv.Itoa(p.offset)))
}

func (p *OffsetCursor) IsEmpty() bool {
	return p == nil || p.offset == 0
}

func (p *OffsetCursor) Offset() int {
	if p == nil {
		return 0
	}

	return p.offset
}
