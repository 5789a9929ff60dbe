package policy_test

import (
	"io/fs"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/lc/pimguard/internal/policy"
)

type LoaderTestSuite struct {
	suite.Suite
	fs     mapFS
	loader *policy.Loader
}

// mapFS is an in-memory filesystem for loader tests.
type mapFS struct {
	files map[string]string
}

func (m mapFS) Stat(path string) (fs.FileInfo, error) {
	if _, ok := m.files[path]; !ok {
		return nil, os.ErrNotExist
	}
	return nil, nil
}

func (m mapFS) MkdirAll(_ string, _ os.FileMode) error {
	return nil
}

func (m mapFS) ReadFile(path string) ([]byte, error) {
	content, ok := m.files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return []byte(content), nil
}

func (m mapFS) ReadDir(dir string) ([]os.DirEntry, error) {
	prefix := dir + "/"
	var entries []os.DirEntry
	for p := range m.files {
		if strings.HasPrefix(p, prefix) {
			entries = append(entries, fakeDirEntry{name: strings.TrimPrefix(p, prefix)})
		}
	}
	if len(entries) == 0 {
		return nil, os.ErrNotExist
	}
	return entries, nil
}

func (m mapFS) WriteFile(path string, content []byte, _ os.FileMode) error {
	m.files[path] = string(content)
	return nil
}

type fakeDirEntry struct{ name string }

func (e fakeDirEntry) Name() string               { return e.name }
func (e fakeDirEntry) IsDir() bool                { return false }
func (e fakeDirEntry) Type() fs.FileMode          { return 0 }
func (e fakeDirEntry) Info() (fs.FileInfo, error) { return nil, nil }

func (s *LoaderTestSuite) SetupTest() {
	s.fs = mapFS{files: make(map[string]string)}
	s.loader = policy.NewLoaderWithRoot(s.fs, "cfg")
}

func (s *LoaderTestSuite) TestLoadNoFiles() {
	// No config on disk is the normal initial state: all access, no error.
	res, err := s.loader.Load("")

	s.Require().NoError(err)
	s.Equal(*policy.Default(), res.Config)
	s.Empty(res.Profile)
}

func (s *LoaderTestSuite) TestLoadMalformedBaseFallsBackToDefaults() {
	s.fs.files["cfg/config.json"] = `{"calendars": [not json`

	res, err := s.loader.Load("")

	s.Require().NoError(err, "malformed base config never blocks execution")
	s.Equal(*policy.Default(), res.Config)
}

func (s *LoaderTestSuite) TestLoadBaseValues() {
	s.fs.files["cfg/config.json"] = `{
		"calendars": {"enabled": true, "mode": "allowlist", "items": ["Work"]},
		"mail": {"enabled": false},
		"defaultCalendar": "Work"
	}`

	res, err := s.loader.Load("")

	s.Require().NoError(err)
	s.Equal(policy.ModeAllowlist, res.Calendars.Mode)
	s.Equal([]string{"Work"}, res.Calendars.Items)
	s.False(res.Mail.Enabled)
	s.Equal("Work", res.DefaultCalendar)
	// Sections absent from the file keep their all-access defaults.
	s.True(res.Reminders.Enabled)
	s.Equal(policy.ModeAll, res.Reminders.Mode)
}

func (s *LoaderTestSuite) TestLoadUnknownModeCoercedToAll() {
	s.fs.files["cfg/config.json"] = `{"calendars": {"enabled": true, "mode": "whitelist", "items": ["X"]}}`

	res, err := s.loader.Load("")

	s.Require().NoError(err)
	s.Equal(policy.ModeAll, res.Calendars.Mode)
}

func (s *LoaderTestSuite) TestLoadProfileNotFound() {
	res, err := s.loader.Load("ghost")

	s.Nil(res)
	s.ErrorIs(err, policy.ErrProfileNotFound, "a requested profile must never silently fall back to base")
}

func (s *LoaderTestSuite) TestLoadInvalidProfileName() {
	for _, name := range []string{"../evil", ".hidden", `a\b`} {
		res, err := s.loader.Load(name)
		s.Nil(res)
		s.ErrorIs(err, policy.ErrInvalidProfileName, "name %q", name)
	}
}

func (s *LoaderTestSuite) TestLoadMalformedProfileFailsClosed() {
	s.fs.files["cfg/profiles/work.json"] = `{"calendars": {`

	res, err := s.loader.Load("work")

	s.Nil(res)
	s.ErrorIs(err, policy.ErrMalformedProfile)
}

func (s *LoaderTestSuite) TestLoadAppliesProfile() {
	s.fs.files["cfg/config.json"] = `{
		"calendars": {"enabled": true, "mode": "all"},
		"reminders": {"enabled": true, "mode": "blocklist", "items": ["Private"]},
		"contacts": {"enabled": true, "mode": "all"},
		"mail": {"enabled": true}
	}`
	s.fs.files["cfg/profiles/work.json"] = `{
		"calendars": {"enabled": true, "mode": "allowlist", "items": ["Work"]},
		"mail": {"enabled": false}
	}`

	res, err := s.loader.Load("work")

	s.Require().NoError(err)
	s.Equal("work", res.Profile)
	s.Equal(policy.ModeAllowlist, res.Calendars.Mode)
	s.Equal([]string{"Work"}, res.Calendars.Items)
	s.False(res.Mail.Enabled)
	// Sections the profile does not carry are inherited from base.
	s.Equal(policy.ModeBlocklist, res.Reminders.Mode)
	s.Equal([]string{"Private"}, res.Reminders.Items)
}

func (s *LoaderTestSuite) TestProfileFromEnvironment() {
	s.T().Setenv(policy.EnvProfile, "work")
	s.fs.files["cfg/profiles/work.json"] = `{"mail": {"enabled": false}}`

	res, err := s.loader.Load("")

	s.Require().NoError(err)
	s.Equal("work", res.Profile)
	s.False(res.Mail.Enabled)
}

func (s *LoaderTestSuite) TestExplicitProfileBeatsEnvironment() {
	s.T().Setenv(policy.EnvProfile, "env-profile")
	s.fs.files["cfg/profiles/cli.json"] = `{"mail": {"enabled": false}}`

	res, err := s.loader.Load("cli")

	s.Require().NoError(err)
	s.Equal("cli", res.Profile)
}

func (s *LoaderTestSuite) TestListProfiles() {
	names, err := s.loader.ListProfiles()
	s.Require().NoError(err)
	s.Empty(names, "no profiles directory means no profiles, not an error")

	s.fs.files["cfg/profiles/work.json"] = `{}`
	s.fs.files["cfg/profiles/home.json"] = `{}`
	s.fs.files["cfg/profiles/notes.txt"] = `ignored`

	names, err = s.loader.ListProfiles()
	s.Require().NoError(err)
	s.Equal([]string{"home", "work"}, names)
}

func (s *LoaderTestSuite) TestProfilePathStripsDirectories() {
	// Belt-and-suspenders behind ValidateProfileName.
	s.Equal(s.loader.ProfilePath("work"), s.loader.ProfilePath("nested/dir/work"))
}

func (s *LoaderTestSuite) TestConfigRootEnvOverride() {
	s.T().Setenv(policy.EnvConfigDir, "/tmp/pim-test")
	s.Equal("/tmp/pim-test", policy.ConfigRoot())

	s.T().Setenv(policy.EnvConfigDir, "   ")
	s.NotEqual("   ", policy.ConfigRoot(), "blank override is ignored")
}

func TestLoaderSuite(t *testing.T) {
	suite.Run(t, new(LoaderTestSuite))
}
