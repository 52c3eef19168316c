package task

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTimeoutWireFormat(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{10 * time.Minute, `"00:10:00"`},
		{90 * time.Second, `"00:01:30"`},
		{2*time.Hour + 3*time.Minute + 4*time.Second, `"02:03:04"`},
		{0, `"00:00:00"`},
	}

	for _, tt := range tests {
		data, err := json.Marshal(Timeout(tt.d))
		if err != nil {
			t.Fatalf("marshal %v: %v", tt.d, err)
		}
		if string(data) != tt.want {
			t.Errorf("marshal %v = %s, want %s", tt.d, data, tt.want)
		}

		var back Timeout
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatalf("unmarshal %s: %v", data, err)
		}
		if time.Duration(back) != tt.d {
			t.Errorf("round trip %v = %v", tt.d, time.Duration(back))
		}
	}
}

func TestTimeoutRejectsNegative(t *testing.T) {
	if _, err := json.Marshal(Timeout(-time.Second)); err == nil {
		t.Fatal("expected error for negative timeout")
	}
}

func TestTimeoutRejectsBadString(t *testing.T) {
	var tm Timeout
	if err := json.Unmarshal([]byte(`"ten minutes"`), &tm); err == nil {
		t.Fatal("expected error for malformed timeout string")
	}
}
