package redis

import "testing"

func TestConfigKey(t *testing.T) {
	if got := ConfigKey(DefaultProfile); got != "desk:config:default" {
		t.Errorf("ConfigKey() = %v, want desk:config:default", got)
	}
	if got := UpdatedAtKey("work"); got != "desk:config:work:updated_at" {
		t.Errorf("UpdatedAtKey() = %v, want desk:config:work:updated_at", got)
	}
}

func TestProfileFromKey(t *testing.T) {
	tests := []struct {
		key    string
		want   string
		wantOK bool
	}{
		{key: "desk:config:default", want: "default", wantOK: true},
		{key: "desk:config:default:updated_at", wantOK: false},
		{key: "desk:config:", wantOK: false},
		{key: "other:service:x", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := ProfileFromKey(tt.key)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ProfileFromKey() = (%v, %v), want (%v, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
