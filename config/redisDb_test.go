package config_test

import (
	"testing"

	"github.com/smartbuild-mm/smartbuild_backend/config"
)

// With no redis reachable the connector must give up after its last
// retry and leave the cache disabled instead of blocking startup.
func TestConnectRedisGivesUpAndDisablesCache(t *testing.T) {
	t.Setenv("REDIS_ADDRESS", "127.0.0.1:1")
	t.Setenv("REDIS_MAX_ATTEMPTS", "1")

	config.ConnectRedisWithRetry()

	if config.GetRedisDB() != nil {
		t.Fatal("client left set after failed connect")
	}

	// every cache helper degrades to a miss or a no-op
	var out string
	exists, err := config.GetRedisObject("some-key", &out)
	if err != nil || exists {
		t.Fatalf("GetRedisObject = (%v, %v), want miss", exists, err)
	}
	if err := config.SetRedisObject("some-key", "value", 0); err != nil {
		t.Fatalf("SetRedisObject: %v", err)
	}
	if err := config.RemoveRedisKey("some-key"); err != nil {
		t.Fatalf("RemoveRedisKey: %v", err)
	}
}
