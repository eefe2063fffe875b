package connection

import "testing"

func TestClassifyClose(t *testing.T) {
	tests := []struct {
		name   string
		code   int
		reason string
		want   CloseClass
	}{
		{"normal closure is clean", 1000, "", CloseClean},
		{"internal error is fatal", 1011, "", CloseFatal},
		{"policy violation is fatal", 1008, "", CloseFatal},
		{"going away is retryable", 1001, "", CloseRetryable},
		{"abnormal closure is retryable", 1006, "", CloseRetryable},
		{"unknown code is retryable", 4000, "", CloseRetryable},
		{"configuration rejection marker is fatal", 1001, "Invalid configuration payload", CloseFatal},
		{"unauthorized marker is fatal", 1002, "Unauthorized", CloseFatal},
		{"failed marker is fatal", 1006, "pairing failed", CloseFatal},
		{"normal closure wins over marker reason", 1000, "shutdown failed over to standby", CloseClean},
		{"benign reason stays retryable", 1001, "server restarting", CloseRetryable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyClose(tt.code, tt.reason); got != tt.want {
				t.Errorf("ClassifyClose(%d, %q) = %s, want %s", tt.code, tt.reason, got, tt.want)
			}
		})
	}
}
