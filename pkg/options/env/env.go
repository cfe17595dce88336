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
	"os"
	"strings"
	"time"

	"github.com/spf13/cast"

	"github.com/das7pad/less-go/pkg/errors"
)

// Prefix is prepended to every key looked up through this package.
const Prefix = "LESSC_"

func lookup(key string) (string, bool) {
	raw, ok := os.LookupEnv(Prefix + key)
	if !ok || raw == "" {
		return "", false
	}
	return raw, true
}

func GetInt(key string, fallback int) (int, error) {
	raw, ok := lookup(key)
	if !ok {
		return fallback, nil
	}
	v, err := cast.ToIntE(strings.TrimSpace(raw))
	if err != nil {
		return fallback, errors.Tag(err, "parse "+Prefix+key)
	}
	return v, nil
}

func GetString(key, fallback string) string {
	raw, ok := lookup(key)
	if !ok {
		return fallback
	}
	return raw
}

func GetBool(key string, fallback bool) (bool, error) {
	raw, ok := lookup(key)
	if !ok {
		return fallback, nil
	}
	v, err := cast.ToBoolE(strings.TrimSpace(raw))
	if err != nil {
		return fallback, errors.Tag(err, "parse "+Prefix+key)
	}
	return v, nil
}

// GetStringList splits a list on the OS path list separator or commas.
func GetStringList(key string, fallback []string) []string {
	raw, ok := lookup(key)
	if !ok {
		return fallback
	}
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == os.PathListSeparator || r == ','
	})
	return cast.ToStringSlice(parts)
}

func GetDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw, ok := lookup(key)
	if !ok {
		return fallback, nil
	}
	v, err := cast.ToDurationE(strings.TrimSpace(raw))
	if err != nil {
		return fallback, errors.Tag(err, "parse "+Prefix+key)
	}
	return v, nil
}
