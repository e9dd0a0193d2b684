package main

import (
	"bytes"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPrintMessage(t *testing.T) {
	ts := time.Date(2024, 3, 1, 10, 20, 30, 400e6, time.Local).UnixMilli()

	tests := []struct {
		name       string
		message    string
		withStatus bool
		want       string
	}{
		{
			name:    "command",
			message: `{"type":"command","seq":3,"timestamp":` + itoa(ts) + `,"command":"next_chapter"}`,
			want:    "10:20:30.400 [COMMAND] next_chapter\n",
		},
		{
			name:    "status hidden by default",
			message: `{"type":"status","timestamp":` + itoa(ts) + `,"status":{"running":true,"paused":false,"devices":1,"pages":2}}`,
			want:    "",
		},
		{
			name:       "status",
			message:    `{"type":"status","timestamp":` + itoa(ts) + `,"status":{"running":true,"paused":false,"devices":1,"pages":2}}`,
			withStatus: true,
			want:       "10:20:30.400 [STATUS] running=true paused=false devices=1 pages=2\n",
		},
		{
			name:    "not json",
			message: "hello",
			want:    "[TEXT] hello\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			printMessage(&buf, []byte(tt.message), tt.withStatus)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
