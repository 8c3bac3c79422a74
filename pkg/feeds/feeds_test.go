package feeds

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNetworkUseIsValid(t *testing.T) {
	assert.True(t, NetworkFull.IsValid())
	assert.True(t, NetworkMinimal.IsValid())
	assert.True(t, NetworkOffline.IsValid())
	assert.False(t, NetworkUse("offline").IsValid())
	assert.False(t, NetworkUse("").IsValid())
}

func TestIsLocalURL(t *testing.T) {
	assert.True(t, IsLocalURL("/feeds/app.yaml"))
	assert.False(t, IsLocalURL("https://apps.example.com/feeds/app.yaml"))
	assert.False(t, IsLocalURL("relative/app.yaml"))
}

func TestInterfaceString(t *testing.T) {
	i := &Interface{URI: "https://x/app.yaml"}
	assert.Equal(t, "https://x/app.yaml", i.String())
	i.Name = "app"
	assert.Equal(t, "app", i.String())
}

func TestImplementationIsLocal(t *testing.T) {
	assert.True(t, (&Implementation{ID: "/opt/hello"}).IsLocal())
	assert.False(t, (&Implementation{ID: "sha256:abc"}).IsLocal())
}
