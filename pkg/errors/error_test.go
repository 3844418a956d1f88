package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ErrorTestSuite struct {
	suite.Suite
}

func TestErrorSuite(t *testing.T) {
	suite.Run(t, new(ErrorTestSuite))
}

func (suite *ErrorTestSuite) TestNewError() {
	err := New(ErrCodeInvalidInput, "trades must not be nil")
	suite.NotNil(err)
	suite.Equal(ErrCodeInvalidInput, err.Code)
	suite.Equal("trades must not be nil", err.Message)
	suite.Nil(err.Cause)
}

func (suite *ErrorTestSuite) TestNewfError() {
	err := Newf(ErrCodeInvalidTradeRecord, "trade %d: unknown status %q", 3, "BREAKEVEN")
	suite.Equal(ErrCodeInvalidTradeRecord, err.Code)
	suite.Equal(`trade 3: unknown status "BREAKEVEN"`, err.Message)
}

func (suite *ErrorTestSuite) TestWrapError() {
	cause := errors.New("no such file")
	err := Wrap(ErrCodeJournalReadFailed, "failed to read journal", cause)
	suite.Equal(ErrCodeJournalReadFailed, err.Code)
	suite.Equal(cause, err.Cause)
	suite.Equal(cause, err.Unwrap())
}

func (suite *ErrorTestSuite) TestWrapfError() {
	cause := errors.New("syntax error")
	err := Wrapf(ErrCodeJournalParseFailed, cause, "failed to parse %s", "journal.yaml")
	suite.Equal("failed to parse journal.yaml", err.Message)
	suite.Equal("[301] failed to parse journal.yaml: syntax error", err.Error())
}

func (suite *ErrorTestSuite) TestErrorString() {
	err := New(ErrCodeInvalidInput, "candles must not be nil")
	suite.Equal("[100] candles must not be nil", err.Error())
}

func (suite *ErrorTestSuite) TestUnwrapNil() {
	err := New(ErrCodeInvalidInput, "trades must not be nil")
	suite.Nil(err.Unwrap())
}

func (suite *ErrorTestSuite) TestGetCodeFromWrapped() {
	cause := New(ErrCodeQueryFailed, "query failed")
	err := Wrap(ErrCodeReportBuildFailed, "report failed", cause)
	// GetCode returns the outermost code
	suite.Equal(ErrCodeReportBuildFailed, GetCode(err))
}

func (suite *ErrorTestSuite) TestGetCodeFromStandardError() {
	suite.Equal(ErrCodeUnknown, GetCode(errors.New("standard error")))
	suite.Equal(ErrCodeUnknown, GetCode(nil))
}

func (suite *ErrorTestSuite) TestHasCode() {
	err := New(ErrCodeInvalidConfiguration, "bad config")
	suite.True(HasCode(err, ErrCodeInvalidConfiguration))
	suite.False(HasCode(err, ErrCodeDataNotFound))
}

func (suite *ErrorTestSuite) TestIsInvalidInput() {
	suite.True(IsInvalidInput(New(ErrCodeInvalidInput, "trades must not be nil")))
	suite.False(IsInvalidInput(New(ErrCodeQueryFailed, "query failed")))
	suite.False(IsInvalidInput(errors.New("plain")))
}

func (suite *ErrorTestSuite) TestIsAndAs() {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeReportWriteFailed, "write failed", cause)
	suite.True(Is(err, cause))

	var analyticsErr *Error
	suite.True(As(err, &analyticsErr))
	suite.Equal(ErrCodeReportWriteFailed, analyticsErr.Code)
}

func (suite *ErrorTestSuite) TestErrorCodeValues() {
	suite.Equal(ErrorCode(1), ErrCodeUnknown)
	suite.Equal(ErrorCode(100), ErrCodeInvalidInput)
	suite.Equal(ErrorCode(200), ErrCodeDataNotFound)
	suite.Equal(ErrorCode(300), ErrCodeJournalReadFailed)
	suite.Equal(ErrorCode(400), ErrCodeReportBuildFailed)
	suite.Equal(ErrorCode(500), ErrCodeRequestDecodeFailed)
}
