package domain

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestDerivePK(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)

	tests := []struct {
		name string
		sk   uuid.UUID
		want int64
	}{
		// msb=0, lsb=0: |0 - now| mod 1e12
		{"nil uuid", uuid.Nil, 700_000_000_000},
		// msb=1, lsb=2: |1 - (2 + now)| mod 1e12
		{"small halves", uuid.UUID{7: 1, 15: 2}, 700_000_000_001},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DerivePK(tt.sk, now); got != tt.want {
				t.Errorf("DerivePK() = %d; want %d", got, tt.want)
			}
		})
	}
}

func TestDerivePK_Bounds(t *testing.T) {
	now := time.Now()
	for i := 0; i < 1000; i++ {
		pk := DerivePK(uuid.New(), now)
		if pk < 0 || pk >= pkModulus {
			t.Fatalf("DerivePK() = %d; want 0 <= pk < 1e12", pk)
		}
	}
}

func TestBeforeCreate_AssignsKeys(t *testing.T) {
	var m BaseModel
	if err := m.BeforeCreate(nil); err != nil {
		t.Fatalf("BeforeCreate: %v", err)
	}
	if m.SK == uuid.Nil {
		t.Error("expected sk to be assigned")
	}
	if m.PK == 0 {
		t.Error("expected pk to be assigned")
	}
}

func TestBeforeCreate_KeepsExistingKeys(t *testing.T) {
	sk := uuid.New()
	m := BaseModel{SK: sk, PK: 42}
	if err := m.BeforeCreate(nil); err != nil {
		t.Fatalf("BeforeCreate: %v", err)
	}
	if m.SK != sk || m.PK != 42 {
		t.Errorf("keys changed: sk=%s pk=%d", m.SK, m.PK)
	}
}

func TestRegenerateKeys(t *testing.T) {
	sk := uuid.New()
	m := BaseModel{SK: sk, PK: 42}
	m.RegenerateKeys()
	if m.SK == sk {
		t.Error("expected a new sk")
	}
	if m.PK == 42 {
		t.Error("expected a new pk")
	}
}

func TestContactJSON(t *testing.T) {
	c := Contact{FirstName: "John", LastName: "Doe", Email: "john@example.com"}
	raw, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("marshal contact: %v", err)
	}
	body := string(raw)
	for _, want := range []string{`"first_name":"John"`, `"deleted":false`, `"archived":false`, `"sk":`, `"pk":0`} {
		if !strings.Contains(body, want) {
			t.Errorf("json should contain %s, got: %s", want, body)
		}
	}
	if strings.Contains(body, `"company"`) || strings.Contains(body, `"notes"`) {
		t.Errorf("unloaded relations should be omitted, got: %s", body)
	}
}

func TestEntityPtr(t *testing.T) {
	var e Entity = &Contact{}
	e.Base().Archived = true
	if !e.(*Contact).Archived {
		t.Error("Base() should expose the embedded model")
	}
}
