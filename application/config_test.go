package application

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/veriai-sys/veriai-go/crypto"
)

type testConfig struct {
	*CommonConfig `yaml:",inline"`
	Name          string `toml:"name" yaml:"name"`
}

func (c *testConfig) Load(file, encoding string) error {
	c.CommonConfig = NewCommonConfig(file, encoding, nil)
	return c.GetLoader().Decode(c)
}

func (c *testConfig) Save() error     { return c.GetLoader().Encode(c) }
func (c *testConfig) GetPath() string { return c.Path }

func TestConfigRoundTrip(t *testing.T) {
	for _, encoding := range []string{"toml", "yaml"} {
		file := filepath.Join(t.TempDir(), "config."+encoding)
		conf := &testConfig{
			CommonConfig: NewCommonConfig(file, encoding,
				&LoggerConfig{Environment: "production", Path: "veriai.log"}),
			Name: "coordinator",
		}
		if err := conf.Save(); err != nil {
			t.Fatal(encoding, err)
		}
		if err := conf.Save(); err == nil {
			t.Fatal(encoding, "expect Save to refuse overwriting")
		}

		var got testConfig
		if err := got.Load(file, encoding); err != nil {
			t.Fatal(encoding, err)
		}
		if got.Name != "coordinator" || got.Logger == nil ||
			got.Logger.Environment != "production" || got.Logger.Path != "veriai.log" {
			t.Fatalf("%s: unexpected config %+v", encoding, got)
		}
		if got.GetPath() != file {
			t.Fatal(encoding, "unexpected path", got.GetPath())
		}
	}
}

func TestUnknownEncodingFallsBackToToml(t *testing.T) {
	if _, ok := newConfigLoader("ini").(*TomlLoader); !ok {
		t.Fatal("Expect the toml loader")
	}
	if _, ok := newConfigLoader("yml").(*YamlLoader); !ok {
		t.Fatal("Expect the yaml loader")
	}
}

func TestLoadSigningKey(t *testing.T) {
	dir := t.TempDir()
	sk := crypto.NewStaticTestSigningKey()
	if err := os.WriteFile(filepath.Join(dir, "agent.key"), sk, 0600); err != nil {
		t.Fatal(err)
	}
	file := filepath.Join(dir, "config.toml")
	got, err := LoadSigningKey("agent.key", file)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(sk) {
		t.Fatal("Unexpected key")
	}

	os.WriteFile(filepath.Join(dir, "short.key"), sk[:10], 0600)
	if _, err := LoadSigningKey("short.key", file); err == nil {
		t.Fatal("Expect an error for a truncated key")
	}
	if _, err := LoadSigningKey("missing.key", file); err == nil {
		t.Fatal("Expect an error for a missing key")
	}
}
