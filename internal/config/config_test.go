package config

import (
	"flag"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	type want struct {
		runAddress      string
		storeAPIAddress string
		sessionDBPath   string
		guestEmail      string
		searchDebounce  time.Duration
	}

	tests := []struct {
		name  string
		env   map[string]string
		flags []string
		want  want
	}{
		{
			name:  "defaults",
			env:   map[string]string{},
			flags: []string{},
			want: want{
				runAddress:      "localhost:8080",
				storeAPIAddress: "http://localhost:3000/api/v1",
				sessionDBPath:   "storefront-session",
				guestEmail:      "cliente@avjd.com",
				searchDebounce:  500 * time.Millisecond,
			},
		},
		{
			name: "env only",
			env: map[string]string{
				"RUN_ADDRESS":       "localhost:9999",
				"STORE_API_ADDRESS": "http://store:3000/api/v1",
				"SESSION_DB_PATH":   "/var/lib/storefront",
				"GUEST_EMAIL":       "visitante@avjd.com",
				"SEARCH_DEBOUNCE":   "250ms",
			},
			flags: []string{},
			want: want{
				runAddress:      "localhost:9999",
				storeAPIAddress: "http://store:3000/api/v1",
				sessionDBPath:   "/var/lib/storefront",
				guestEmail:      "visitante@avjd.com",
				searchDebounce:  250 * time.Millisecond,
			},
		},
		{
			name: "flags only",
			env:  map[string]string{},
			flags: []string{
				"-a", "localhost:7777",
				"-r", "http://flag-store/api/v1",
				"-d", "flag-session",
			},
			want: want{
				runAddress:      "localhost:7777",
				storeAPIAddress: "http://flag-store/api/v1",
				sessionDBPath:   "flag-session",
				guestEmail:      "cliente@avjd.com",
				searchDebounce:  500 * time.Millisecond,
			},
		},
		{
			name: "env overrides flags",
			env: map[string]string{
				"RUN_ADDRESS":       "env:9000",
				"STORE_API_ADDRESS": "http://env-store/api/v1",
				"SESSION_DB_PATH":   "env-session",
			},
			flags: []string{
				"-a", "flag:8000",
				"-r", "http://flag-store/api/v1",
				"-d", "flag-session",
			},
			want: want{
				runAddress:      "env:9000",
				storeAPIAddress: "http://env-store/api/v1",
				sessionDBPath:   "env-session",
				guestEmail:      "cliente@avjd.com",
				searchDebounce:  500 * time.Millisecond,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)

			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			os.Args = append([]string{"test"}, tt.flags...)

			cfg, err := Parse()
			require.NoError(t, err)

			assert.Equal(t, tt.want.runAddress, cfg.RunAddress)
			assert.Equal(t, tt.want.storeAPIAddress, cfg.StoreAPIAddress)
			assert.Equal(t, tt.want.sessionDBPath, cfg.SessionDBPath)
			assert.Equal(t, tt.want.guestEmail, cfg.GuestEmail)
			assert.Equal(t, tt.want.searchDebounce, cfg.SearchDebounce)
		})
	}
}
