package cache

import (
	"testing"
	"time"

	"fullpicture/config"
)

func TestKeyNormalizesQuery(t *testing.T) {
	cases := []struct {
		name string
		a, b string
		same bool
	}{
		{"case", "Ukraine", "ukraine", true},
		{"whitespace", "  climate   protests ", "climate protests", true},
		{"different", "gaza", "tiktok ban", false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ka, kb := Key("search", c.a), Key("search", c.b)
			if (ka == kb) != c.same {
				t.Fatalf("Key(%q)=%s Key(%q)=%s; same=%v want %v", c.a, ka, c.b, kb, ka == kb, c.same)
			}
		})
	}

	if Key("search", "x") == Key("sources", "x") {
		t.Fatal("keys for different kinds must differ")
	}
}

func TestFromConfig(t *testing.T) {
	cc := FromConfig(config.Config{RedisAddr: "redis:6379", RedisDB: 2, CacheTTL: time.Minute})
	if cc.Addr != "redis:6379" || cc.DB != 2 || cc.TTL != time.Minute || cc.Prefix != "fullpicture" {
		t.Fatalf("unexpected cache config: %+v", cc)
	}
}
