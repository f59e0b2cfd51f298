package message

import (
	"strings"
	"testing"

	"chat-sync/internal/apperror"
	"chat-sync/internal/model"
	"chat-sync/internal/platform/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestValidator() *Validator {
	return NewValidator(config.Default().Limits)
}

func TestValidator_Profile(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name    string
		check   func() error
		wantErr bool
	}{
		{name: "空自我介紹", check: func() error { return v.Bio("") }},
		{name: "自我介紹 190 字", check: func() error { return v.Bio(strings.Repeat("字", 190)) }},
		{name: "自我介紹 191 字", check: func() error { return v.Bio(strings.Repeat("a", 191)) }, wantErr: true},
		{name: "空暱稱", check: func() error { return v.Nickname("") }, wantErr: true},
		{name: "暱稱 63 字", check: func() error { return v.Nickname(strings.Repeat("a", 63)) }},
		{name: "暱稱 64 字", check: func() error { return v.Nickname(strings.Repeat("a", 64)) }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.check()
			if tt.wantErr {
				assert.True(t, apperror.Is(err, apperror.KindValidation))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidator_Content(t *testing.T) {
	v := newTestValidator()

	assert.NoError(t, v.Content("hello"))
	assert.Error(t, v.Content("   "))
	assert.Error(t, v.Content("a\x00b"))
	assert.Error(t, v.Content(strings.Repeat("a", 4001)))
	assert.Error(t, v.ChannelName(" "))
	assert.NoError(t, v.ChannelName("team"))
}

func TestValidator_Members(t *testing.T) {
	v := newTestValidator()

	got, err := v.Members("me", []string{"a", "me", "b", "a"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)

	_, err = v.Members("me", []string{"me"})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	_, err = v.Members("me", []string{""})
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestValidator_Status(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		in      string
		want    model.FriendRequestStatus
		wantErr bool
	}{
		{in: "Read", want: model.FriendRequestRead},
		{in: "Accepted", want: model.FriendRequestAccepted},
		{in: "Refused", want: model.FriendRequestRefused},
		{in: "Sent", wantErr: true},
		{in: "bogus", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := v.Status(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSanitizeInput(t *testing.T) {
	assert.Equal(t, "a\nb\tc", SanitizeInput("a\x00\nb\tc\x07"))
}
