package textures

import (
	"context"
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type StorageMock struct {
	mock.Mock
}

func (m *StorageMock) Exists(ctx context.Context, path string) (bool, error) {
	args := m.Called(ctx, path)
	return args.Bool(0), args.Error(1)
}

func (m *StorageMock) LoadImage(ctx context.Context, path string) (image.Image, error) {
	args := m.Called(ctx, path)
	var result image.Image
	if casted, ok := args.Get(0).(image.Image); ok {
		result = casted
	}

	return result, args.Error(1)
}

type ResolverTestSuite struct {
	suite.Suite

	Resolver *Resolver
	Storage  *StorageMock
}

func (t *ResolverTestSuite) SetupSubTest() {
	t.Storage = &StorageMock{}
	t.Resolver = NewResolver(t.Storage, "Skins", "Cloak")
}

func (t *ResolverTestSuite) TearDownSubTest() {
	t.Storage.AssertExpectations(t.T())
}

func (t *ResolverTestSuite) TestResolve() {
	ctx := context.Background()

	t.Run("user with skin and cloak", func() {
		img := newOpaqueSkin(128, 128)
		clearRect(img, rightArmColumn(2))
		clearRect(img, leftArmColumn(2))

		t.Storage.On("Exists", ctx, "Skins/mock_user.png").Return(true, nil)
		t.Storage.On("Exists", ctx, "Cloak/mock_user.png").Return(true, nil)
		t.Storage.On("LoadImage", ctx, "Skins/mock_user.png").Return(img, nil)

		result, err := t.Resolver.Resolve(ctx, "mock_user", "https://skins.local")
		t.Require().NoError(err)
		t.Equal(&UserTexture{
			UserName:   "mock_user",
			HasSkin:    true,
			HasCloak:   true,
			SkinPath:   "Skins/mock_user.png",
			CloakPath:  "Cloak/mock_user.png",
			SkinFormat: FormatHD,
			SkinModel:  ModelSlim,
			SkinUrl:    "https://skins.local/skin/s-mock_user",
			CloakUrl:   "https://skins.local/cloak/c-mock_user",
			Texture: Partials{
				Head:      "https://skins.local/skin/mock_user/head/128",
				Front:     "https://skins.local/skin/mock_user/front/128",
				Back:      "https://skins.local/skin/mock_user/back/128",
				CloakBack: "https://skins.local/skin/mock_user/full-back/128",
				Cloak:     "https://skins.local/cloak/mock_user/128",
			},
		}, result)
	})

	t.Run("user without skin uses the default one and skips classification", func() {
		t.Storage.On("Exists", ctx, "Skins/mock_user.png").Return(false, nil)
		t.Storage.On("Exists", ctx, "Cloak/mock_user.png").Return(false, nil)

		result, err := t.Resolver.Resolve(ctx, "mock_user", "")
		t.Require().NoError(err)
		t.False(result.HasSkin)
		t.False(result.HasCloak)
		t.Equal("Skins/default.png", result.SkinPath)
		t.Empty(result.CloakPath)
		t.Equal("/skin/s-mock_user", result.SkinUrl)
		t.Equal("/cloak/c-mock_user", result.CloakUrl)
		t.Equal(FormatUnknown, result.SkinFormat)
		t.Equal(ModelUnknown, result.SkinModel)
		t.Storage.AssertNotCalled(t.T(), "LoadImage", mock.Anything, mock.Anything)
	})

	t.Run("user named after the default skin", func() {
		t.Storage.On("Exists", ctx, "Cloak/default.png").Return(true, nil)

		result, err := t.Resolver.Resolve(ctx, "default", "")
		t.Require().NoError(err)
		t.False(result.HasSkin)
		t.True(result.HasCloak)
		t.Equal("Skins/default.png", result.SkinPath)
		t.Equal(FormatUnknown, result.SkinFormat)
		t.Equal(ModelUnknown, result.SkinModel)
		t.Storage.AssertNotCalled(t.T(), "Exists", ctx, "Skins/default.png")
		t.Storage.AssertNotCalled(t.T(), "LoadImage", mock.Anything, mock.Anything)
	})

	t.Run("user with only skin", func() {
		t.Storage.On("Exists", ctx, "Skins/mock_user.png").Return(true, nil)
		t.Storage.On("Exists", ctx, "Cloak/mock_user.png").Return(false, nil)
		t.Storage.On("LoadImage", ctx, "Skins/mock_user.png").Return(newOpaqueSkin(64, 64), nil)

		result, err := t.Resolver.Resolve(ctx, "mock_user", "http://localhost")
		t.Require().NoError(err)
		t.True(result.HasSkin)
		t.False(result.HasCloak)
		t.Empty(result.CloakPath)
		t.Equal(FormatSD, result.SkinFormat)
		t.Equal(ModelClassic, result.SkinModel)
	})

	t.Run("error from skin existence check", func() {
		expectedErr := errors.New("mock error")
		t.Storage.On("Exists", ctx, "Skins/mock_user.png").Return(false, expectedErr)

		result, err := t.Resolver.Resolve(ctx, "mock_user", "")
		t.Same(expectedErr, err)
		t.Nil(result)
	})

	t.Run("error from cloak existence check", func() {
		expectedErr := errors.New("mock error")
		t.Storage.On("Exists", ctx, "Skins/mock_user.png").Return(true, nil)
		t.Storage.On("Exists", ctx, "Cloak/mock_user.png").Return(false, expectedErr)

		result, err := t.Resolver.Resolve(ctx, "mock_user", "")
		t.Same(expectedErr, err)
		t.Nil(result)
	})

	t.Run("broken skin", func() {
		decodeErr := &ImageDecodeError{errors.New("png: invalid format")}
		t.Storage.On("Exists", ctx, "Skins/mock_user.png").Return(true, nil)
		t.Storage.On("Exists", ctx, "Cloak/mock_user.png").Return(true, nil)
		t.Storage.On("LoadImage", ctx, "Skins/mock_user.png").Return(nil, decodeErr)

		result, err := t.Resolver.Resolve(ctx, "mock_user", "")
		var target *ImageDecodeError
		t.ErrorAs(err, &target)
		t.Nil(result)
	})

	t.Run("too small skin", func() {
		t.Storage.On("Exists", ctx, "Skins/mock_user.png").Return(true, nil)
		t.Storage.On("Exists", ctx, "Cloak/mock_user.png").Return(false, nil)
		t.Storage.On("LoadImage", ctx, "Skins/mock_user.png").Return(newOpaqueSkin(32, 32), nil)

		result, err := t.Resolver.Resolve(ctx, "mock_user", "")
		t.ErrorIs(err, ErrImageTooSmall)
		t.Nil(result)
	})
}

func TestResolver(t *testing.T) {
	suite.Run(t, new(ResolverTestSuite))
}

func TestResolver_Paths(t *testing.T) {
	r := NewResolver(nil, "/srv/Storage/Skins", "/srv/Storage/Cloak")
	require.Equal(t, "/srv/Storage/Skins/mock.png", r.SkinPath("mock"))
	require.Equal(t, "/srv/Storage/Cloak/mock.png", r.CloakPath("mock"))
	require.Equal(t, "/srv/Storage/Skins/default.png", r.DefaultSkinPath())
}
