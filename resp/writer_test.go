package resp_test

import (
	"bytes"
	"math"
	"testing"

	"github.com/FrancescoLuzzi/redirs/resp"
)

func TestWriterWireFormat(t *testing.T) {
	tests := []struct {
		name     string
		value    resp.Value
		expected string
	}{
		{
			name:     "simple string",
			value:    resp.NewSimpleString("OK"),
			expected: "+OK\r\n",
		},
		{
			name:     "simple error",
			value:    resp.NewSimpleError("ERR oops"),
			expected: "-ERR oops\r\n",
		},
		{
			name:     "integer",
			value:    resp.NewInteger(42),
			expected: ":42\r\n",
		},
		{
			name:     "bulk string",
			value:    resp.NewBulkStringFromString("hello"),
			expected: "$5\r\nhello\r\n",
		},
		{
			name:     "null bulk string",
			value:    resp.NewNullBulkString(),
			expected: "$-1\r\n",
		},
		{
			name:     "null array",
			value:    resp.NewNullArray(),
			expected: "*-1\r\n",
		},
		{
			name:     "empty array",
			value:    resp.NewArray(),
			expected: "*0\r\n",
		},
		{
			name: "nested array",
			value: resp.NewArray(
				resp.NewInteger(1),
				resp.NewArray(resp.NewSimpleString("x")),
			),
			expected: "*2\r\n:1\r\n*1\r\n+x\r\n",
		},
		{
			name:     "null",
			value:    resp.NewNull(),
			expected: "_\r\n",
		},
		{
			name:     "bool true",
			value:    resp.NewBool(true),
			expected: "#t\r\n",
		},
		{
			name:     "bool false",
			value:    resp.NewBool(false),
			expected: "#f\r\n",
		},
		{
			name:     "double",
			value:    resp.NewDouble(1.25),
			expected: ",1.25\r\n",
		},
		{
			name:     "double whole number",
			value:    resp.NewDouble(10),
			expected: ",10\r\n",
		},
		{
			name:     "positive infinity",
			value:    resp.NewDouble(math.Inf(1)),
			expected: ",inf\r\n",
		},
		{
			name:     "negative infinity",
			value:    resp.NewDouble(math.Inf(-1)),
			expected: ",-inf\r\n",
		},
		{
			name:     "nan",
			value:    resp.NewDouble(math.NaN()),
			expected: ",nan\r\n",
		},
		{
			name:     "big number",
			value:    resp.NewBigNumber(false, "349289032840923850932485094385094"),
			expected: "(+349289032840923850932485094385094\r\n",
		},
		{
			name:     "negative big number",
			value:    resp.NewBigNumber(true, "123"),
			expected: "(-123\r\n",
		},
		{
			name:     "bulk error",
			value:    resp.NewBulkError([]byte("SYNTAX invalid syntax")),
			expected: "!21\r\nSYNTAX invalid syntax\r\n",
		},
		{
			name:     "verbatim string",
			value:    resp.NewVerbatimString(resp.VerbatimTxt, "Some string"),
			expected: "=15\r\ntxt:Some string\r\n",
		},
		{
			name: "map",
			value: resp.NewMap(
				resp.NewSimpleString("a"), resp.NewInteger(1),
				resp.NewSimpleString("b"), resp.NewInteger(2),
			),
			expected: "%2\r\n+a\r\n:1\r\n+b\r\n:2\r\n",
		},
		{
			name: "set",
			value: resp.NewSet(
				resp.NewInteger(1),
				resp.NewInteger(2),
			),
			expected: "~2\r\n:1\r\n:2\r\n",
		},
		{
			name: "push",
			value: resp.NewPush(
				resp.NewSimpleString("pubsub"),
				resp.NewSimpleString("message"),
			),
			expected: ">2\r\n+pubsub\r\n+message\r\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			w := resp.NewWriter(&buf)
			if err := w.WriteValue(tt.value); err != nil {
				t.Fatalf("WriteValue() error = %v", err)
			}
			if err := w.Flush(); err != nil {
				t.Fatalf("Flush() error = %v", err)
			}
			if buf.String() != tt.expected {
				t.Errorf("WriteValue() = %q, want %q", buf.String(), tt.expected)
			}

			if got := resp.Marshal(tt.value); string(got) != tt.expected {
				t.Errorf("Marshal() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestWriterBinarySafety(t *testing.T) {
	payload := []byte("hel\r\nlo\r\nwo")
	var buf bytes.Buffer
	w := resp.NewWriter(&buf)
	if err := w.WriteBulkString(payload); err != nil {
		t.Fatalf("WriteBulkString() error = %v", err)
	}
	w.Flush()

	expected := "$11\r\nhel\r\nlo\r\nwo\r\n"
	if buf.String() != expected {
		t.Errorf("WriteBulkString() = %q, want %q", buf.String(), expected)
	}
}

func TestWriteCommand(t *testing.T) {
	var buf bytes.Buffer
	w := resp.NewWriter(&buf)
	if err := w.WriteCommand("SET", "key", "value"); err != nil {
		t.Fatalf("WriteCommand() error = %v", err)
	}
	w.Flush()

	expected := "*3\r\n$3\r\nSET\r\n$3\r\nkey\r\n$5\r\nvalue\r\n"
	if buf.String() != expected {
		t.Errorf("WriteCommand() = %q, want %q", buf.String(), expected)
	}
}

func TestWriterShortcuts(t *testing.T) {
	var buf bytes.Buffer
	w := resp.NewWriter(&buf)

	if err := w.WriteOK(); err != nil {
		t.Fatalf("WriteOK() error = %v", err)
	}
	if err := w.WritePONG(); err != nil {
		t.Fatalf("WritePONG() error = %v", err)
	}
	w.Flush()

	if buf.String() != "+OK\r\n+PONG\r\n" {
		t.Errorf("shortcuts = %q, want %q", buf.String(), "+OK\r\n+PONG\r\n")
	}
}

// errWriter fails after n bytes to exercise sink error propagation.
type errWriter struct {
	n   int
	err error
}

func (w *errWriter) Write(p []byte) (int, error) {
	if len(p) > w.n {
		n := w.n
		w.n = 0
		return n, w.err
	}
	w.n -= len(p)
	return len(p), nil
}

func TestWriterSinkError(t *testing.T) {
	sinkErr := bytes.ErrTooLarge
	w := resp.NewWriter(&errWriter{n: 4, err: sinkErr})

	big := resp.NewBulkString(bytes.Repeat([]byte("x"), 64*1024))
	err := w.WriteValue(big)
	if err == nil {
		err = w.Flush()
	}
	if err != sinkErr {
		t.Fatalf("WriteValue() error = %v, want %v", err, sinkErr)
	}
}
