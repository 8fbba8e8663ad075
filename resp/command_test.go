package resp_test

import (
	"errors"
	"testing"

	"github.com/FrancescoLuzzi/redirs/resp"
)

func commandArray(args ...string) resp.Value {
	elems := make([]resp.Value, len(args))
	for i, a := range args {
		elems[i] = resp.NewBulkStringFromString(a)
	}
	return resp.NewArray(elems...)
}

func TestParseCommand(t *testing.T) {
	t.Run("SET", func(t *testing.T) {
		cmd, err := resp.ParseCommand(commandArray("SET", "k", "v"))
		if err != nil {
			t.Fatalf("ParseCommand() error = %v", err)
		}
		set, ok := cmd.(resp.SetCommand)
		if !ok {
			t.Fatalf("command type = %T, want SetCommand", cmd)
		}
		if set.Key != "k" {
			t.Errorf("Key = %q, want %q", set.Key, "k")
		}
		if !set.Value.Equal(resp.NewBulkStringFromString("v")) {
			t.Errorf("Value = %+v, want bulk string %q", set.Value, "v")
		}
	})

	t.Run("GET", func(t *testing.T) {
		cmd, err := resp.ParseCommand(commandArray("get", "mykey"))
		if err != nil {
			t.Fatalf("ParseCommand() error = %v", err)
		}
		get, ok := cmd.(resp.GetCommand)
		if !ok {
			t.Fatalf("command type = %T, want GetCommand", cmd)
		}
		if get.Key != "mykey" {
			t.Errorf("Key = %q, want %q", get.Key, "mykey")
		}
	})

	t.Run("DEL", func(t *testing.T) {
		cmd, err := resp.ParseCommand(commandArray("DEL", "mykey"))
		if err != nil {
			t.Fatalf("ParseCommand() error = %v", err)
		}
		if _, ok := cmd.(resp.DelCommand); !ok {
			t.Fatalf("command type = %T, want DelCommand", cmd)
		}
	})

	t.Run("PING without message", func(t *testing.T) {
		cmd, err := resp.ParseCommand(commandArray("PING"))
		if err != nil {
			t.Fatalf("ParseCommand() error = %v", err)
		}
		ping, ok := cmd.(resp.PingCommand)
		if !ok {
			t.Fatalf("command type = %T, want PingCommand", cmd)
		}
		if ping.HasMessage {
			t.Error("HasMessage = true, want false")
		}
	})

	t.Run("PING with message", func(t *testing.T) {
		cmd, err := resp.ParseCommand(commandArray("PING", "hello"))
		if err != nil {
			t.Fatalf("ParseCommand() error = %v", err)
		}
		ping := cmd.(resp.PingCommand)
		if !ping.HasMessage || ping.Message != "hello" {
			t.Errorf("PingCommand = %+v, want message %q", ping, "hello")
		}
	})

	t.Run("ECHO", func(t *testing.T) {
		cmd, err := resp.ParseCommand(commandArray("ECHO", "hello"))
		if err != nil {
			t.Fatalf("ParseCommand() error = %v", err)
		}
		echo := cmd.(resp.EchoCommand)
		if echo.Message != "hello" {
			t.Errorf("Message = %q, want %q", echo.Message, "hello")
		}
	})

	t.Run("simple string arguments accepted", func(t *testing.T) {
		v := resp.NewArray(resp.NewSimpleString("GET"), resp.NewSimpleString("k"))
		if _, err := resp.ParseCommand(v); err != nil {
			t.Fatalf("ParseCommand() error = %v", err)
		}
	})
}

func TestParseCommandHello(t *testing.T) {
	t.Run("bare", func(t *testing.T) {
		cmd, err := resp.ParseCommand(commandArray("HELLO"))
		if err != nil {
			t.Fatalf("ParseCommand() error = %v", err)
		}
		hello := cmd.(resp.HelloCommand)
		if hello.Version != resp.ProtoUnspecified || hello.Auth != nil || hello.ClientName != "" {
			t.Errorf("HelloCommand = %+v, want empty", hello)
		}
	})

	t.Run("version and auth", func(t *testing.T) {
		cmd, err := resp.ParseCommand(commandArray("HELLO", "3", "AUTH", "u", "p"))
		if err != nil {
			t.Fatalf("ParseCommand() error = %v", err)
		}
		hello := cmd.(resp.HelloCommand)
		if hello.Version != resp.ProtoV3 {
			t.Errorf("Version = %v, want ProtoV3", hello.Version)
		}
		if hello.Auth == nil || hello.Auth.Username != "u" || hello.Auth.Password != "p" {
			t.Errorf("Auth = %+v, want u/p", hello.Auth)
		}
		if hello.ClientName != "" {
			t.Errorf("ClientName = %q, want empty", hello.ClientName)
		}
	})

	t.Run("clauses in either order", func(t *testing.T) {
		cmd, err := resp.ParseCommand(commandArray("HELLO", "2", "SETNAME", "worker", "AUTH", "u", "p"))
		if err != nil {
			t.Fatalf("ParseCommand() error = %v", err)
		}
		hello := cmd.(resp.HelloCommand)
		if hello.Version != resp.ProtoV2 || hello.ClientName != "worker" || hello.Auth == nil {
			t.Errorf("HelloCommand = %+v", hello)
		}
	})

	t.Run("setname without version", func(t *testing.T) {
		cmd, err := resp.ParseCommand(commandArray("HELLO", "SETNAME", "worker"))
		if err != nil {
			t.Fatalf("ParseCommand() error = %v", err)
		}
		hello := cmd.(resp.HelloCommand)
		if hello.Version != resp.ProtoUnspecified || hello.ClientName != "worker" {
			t.Errorf("HelloCommand = %+v", hello)
		}
	})

	t.Run("unsupported version", func(t *testing.T) {
		_, err := resp.ParseCommand(commandArray("HELLO", "4"))
		if !errors.Is(err, resp.ErrInvalidCommand) {
			t.Fatalf("error = %v, want ErrInvalidCommand", err)
		}
	})

	t.Run("auth missing password", func(t *testing.T) {
		_, err := resp.ParseCommand(commandArray("HELLO", "3", "AUTH", "u"))
		if !errors.Is(err, resp.ErrWrongArity) {
			t.Fatalf("error = %v, want ErrWrongArity", err)
		}
	})
}

func TestParseCommandErrors(t *testing.T) {
	tests := []struct {
		name  string
		value resp.Value
		want  error
	}{
		{name: "missing key", value: commandArray("GET"), want: resp.ErrWrongArity},
		{name: "extra arguments", value: commandArray("GET", "a", "b"), want: resp.ErrWrongArity},
		{name: "set missing value", value: commandArray("SET", "k"), want: resp.ErrWrongArity},
		{name: "del missing key", value: commandArray("DEL"), want: resp.ErrWrongArity},
		{name: "echo missing message", value: commandArray("ECHO"), want: resp.ErrWrongArity},
		{name: "unknown command", value: commandArray("FLUSHALL"), want: resp.ErrUnknownCommand},
		{name: "empty array", value: resp.NewArray(), want: resp.ErrInvalidCommand},
		{name: "null array", value: resp.NewNullArray(), want: resp.ErrInvalidCommand},
		{name: "not an array", value: resp.NewSimpleString("GET"), want: resp.ErrInvalidCommand},
		{
			name:  "integer argument",
			value: resp.NewArray(resp.NewBulkStringFromString("GET"), resp.NewInteger(1)),
			want:  resp.ErrInvalidCommand,
		},
		{
			name:  "null bulk argument",
			value: resp.NewArray(resp.NewBulkStringFromString("GET"), resp.NewNullBulkString()),
			want:  resp.ErrInvalidCommand,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := resp.ParseCommand(tt.value)
			if !errors.Is(err, tt.want) {
				t.Fatalf("ParseCommand() error = %v, want %v", err, tt.want)
			}
			if !errors.Is(err, resp.ErrInvalidCommand) {
				t.Errorf("error %v does not wrap ErrInvalidCommand", err)
			}
		})
	}
}

// Commands own their data: mutating the decode buffer afterwards must
// not change a parsed command.
func TestParseCommandOwnsData(t *testing.T) {
	buf := []byte("*3\r\n$3\r\nSET\r\n$1\r\nk\r\n$1\r\nv\r\n")
	dec := resp.NewDecoder(buf)
	v, err := dec.Decode()
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	cmd, err := resp.ParseCommand(v)
	if err != nil {
		t.Fatalf("ParseCommand() error = %v", err)
	}

	for i := range buf {
		buf[i] = 'Z'
	}

	set := cmd.(resp.SetCommand)
	if set.Key != "k" {
		t.Errorf("Key = %q after buffer reuse, want %q", set.Key, "k")
	}
	if got := string(set.Value.Bytes()); got != "v" {
		t.Errorf("Value = %q after buffer reuse, want %q", got, "v")
	}
}

func TestCommandFamilies(t *testing.T) {
	system, err := resp.ParseCommand(commandArray("PING"))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := system.(resp.SystemCommand); !ok {
		t.Errorf("%T should be a SystemCommand", system)
	}

	action, err := resp.ParseCommand(commandArray("GET", "k"))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := action.(resp.ActionCommand); !ok {
		t.Errorf("%T should be an ActionCommand", action)
	}
}
