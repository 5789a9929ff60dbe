package policy_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/lc/pimguard/internal/filesys"
	"github.com/lc/pimguard/internal/mocks"
	"github.com/lc/pimguard/internal/policy"
)

type WriterTestSuite struct {
	suite.Suite
	root   string
	writer *policy.Writer
	loader *policy.Loader
}

func (s *WriterTestSuite) SetupTest() {
	s.root = s.T().TempDir()
	s.writer = policy.NewWriterWithRoot(filesys.OS(), s.root)
	s.loader = policy.NewLoaderWithRoot(filesys.OS(), s.root)
}

func (s *WriterTestSuite) TestWriteBaseRoundTrip() {
	cfg := policy.Default()
	cfg.Calendars.Mode = policy.ModeAllowlist
	cfg.Calendars.Items = []string{"Work", "Work"} // duplicates are kept as-is
	cfg.DefaultCalendar = "Work"

	s.Require().NoError(s.writer.WriteBase(cfg))

	res, err := s.loader.Load("")
	s.Require().NoError(err)
	s.Equal(*cfg, res.Config)
}

func (s *WriterTestSuite) TestWriteProfileRoundTrip() {
	ov := &policy.Override{
		Calendars: &policy.DomainConfig{Enabled: true, Mode: policy.ModeAllowlist, Items: []string{"Work"}},
		Mail:      &policy.MailConfig{Enabled: false},
	}

	s.Require().NoError(s.writer.WriteProfile("work", ov))

	got, err := s.loader.LoadProfile("work")
	s.Require().NoError(err)
	s.Equal(ov, got)
	s.Nil(got.Reminders, "absent sections stay absent through a round-trip")
	s.Nil(got.DefaultCalendar)

	names, err := s.loader.ListProfiles()
	s.Require().NoError(err)
	s.Equal([]string{"work"}, names)
}

func (s *WriterTestSuite) TestWriteProfileRejectsUnsafeName() {
	err := s.writer.WriteProfile("../escape", &policy.Override{})
	s.ErrorIs(err, policy.ErrInvalidProfileName)

	_, statErr := os.Stat(filepath.Join(s.root, "profiles"))
	s.True(os.IsNotExist(statErr), "nothing may touch disk for an unsafe name")
}

func (s *WriterTestSuite) TestWriteBaseRejectsInvalidConfig() {
	cfg := policy.Default()
	cfg.Contacts.Mode = policy.ModeAllowlist
	cfg.Contacts.Items = []string{" "}

	err := s.writer.WriteBase(cfg)
	s.Require().Error(err)
	s.Contains(err.Error(), "refusing to write")
}

func (s *WriterTestSuite) TestWriteBasePropagatesFilesystemErrors() {
	fsMock := &mocks.MockOsFS{}
	fsMock.On("MkdirAll", mock.Anything, mock.Anything).Return(nil)
	fsMock.On("CreateTemp", mock.Anything, mock.Anything).Return(nil, assert.AnError)

	w := policy.NewWriterWithRoot(fsMock, "root")
	err := w.WriteBase(policy.Default())

	s.ErrorIs(err, assert.AnError)
	fsMock.AssertExpectations(s.T())
}

func TestWriterSuite(t *testing.T) {
	suite.Run(t, new(WriterTestSuite))
}
