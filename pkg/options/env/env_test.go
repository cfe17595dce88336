// Golang port of Overleaf
// Copyright (C) 2024 Jakob Ackermann <das7pad@outlook.com>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package env

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestGetInt(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		want    int
		wantErr bool
	}{
		{name: "unset", want: 7},
		{name: "set", env: "12", want: 12},
		{name: "padded", env: " 3 ", want: 3},
		{name: "malformed", env: "x", want: 7, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(Prefix+"LIMIT", tt.env)
			got, err := GetInt("LIMIT", 7)
			if (err != nil) != tt.wantErr {
				t.Errorf("GetInt() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("GetInt() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetBool(t *testing.T) {
	tests := []struct {
		env     string
		want    bool
		wantErr bool
	}{
		{env: "", want: true},
		{env: "false", want: false},
		{env: "1", want: true},
		{env: "0", want: false},
		{env: "maybe", want: true, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			t.Setenv(Prefix+"FLAG", tt.env)
			got, err := GetBool("FLAG", true)
			if (err != nil) != tt.wantErr {
				t.Errorf("GetBool() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("GetBool() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetStringList(t *testing.T) {
	t.Setenv(Prefix+"PATHS", "a,b,,c")
	got := GetStringList("PATHS", nil)
	if diff := cmp.Diff([]string{"a", "b", "c"}, got); diff != "" {
		t.Errorf("GetStringList() mismatch (-want +got):\n%s", diff)
	}
	if got = GetStringList("UNSET", []string{"x"}); len(got) != 1 {
		t.Errorf("GetStringList() = %v, want fallback", got)
	}
}

func TestGetDuration(t *testing.T) {
	t.Setenv(Prefix+"DEBOUNCE", "150ms")
	got, err := GetDuration("DEBOUNCE", time.Second)
	if err != nil || got != 150*time.Millisecond {
		t.Errorf("GetDuration() = %v, %v", got, err)
	}
}
