package queue

import (
	"bytes"
	"encoding/json"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleInquiryWritesLine(t *testing.T) {
	var buf bytes.Buffer
	body, err := json.Marshal(InquiryCreatedEvent{
		MessageID: 1, HomeID: 2, RealtorID: 3, BuyerID: 4, BuyerEmail: "b@x.com", Message: "is it sunny?",
	})
	require.NoError(t, err)

	require.NoError(t, handleInquiry(body, writerSink(&buf)))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "inquiry received", line["message"])
	assert.EqualValues(t, 2, line["home_id"])
	assert.EqualValues(t, 3, line["realtor_id"])
	assert.EqualValues(t, 12, line["message_len"])
}

func TestHandleInquiryRejectsGarbage(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, handleInquiry([]byte("{"), writerSink(&buf)))
	assert.Error(t, handleInquiry([]byte(`{"message_id":0}`), writerSink(&buf)))
	assert.Zero(t, buf.Len())
}

func writerSink(w io.Writer) zerolog.Logger { return zerolog.New(w) }
