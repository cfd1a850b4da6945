package social

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/kakao"

	"travelog/internal/app/identity"
)

// kakaoUserInfoURL returns the profile of the token's owner.
const kakaoUserInfoURL = "https://kapi.kakao.com/v2/user/me"

// KakaoClient exchanges an authorization code for a Kakao access token and
// fetches the account profile.
type KakaoClient struct {
	conf *oauth2.Config

	// UserInfoURL overrides the profile endpoint. Empty means the public
	// Kakao endpoint.
	UserInfoURL string
}

// NewKakaoClient builds a client for the Kakao authorization-code flow.
func NewKakaoClient(clientID, clientSecret, redirectURL string) *KakaoClient {
	return &KakaoClient{
		conf: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     kakao.Endpoint,
		},
	}
}

type kakaoUserInfo struct {
	ID           int64 `json:"id"`
	KakaoAccount struct {
		Email   string `json:"email"`
		Profile struct {
			Nickname        string `json:"nickname"`
			ProfileImageURL string `json:"profile_image_url"`
		} `json:"profile"`
	} `json:"kakao_account"`
}

// ExchangeCode trades the authorization code for an access token, loads the
// profile, and returns the record of the signed-in Kakao account.
func (c *KakaoClient) ExchangeCode(ctx context.Context, code string) (identity.RawUserRecord, error) {
	if code == "" {
		return identity.RawUserRecord{}, ErrVerifyFailed
	}

	token, err := c.conf.Exchange(ctx, code)
	if err != nil {
		return identity.RawUserRecord{}, fmt.Errorf("kakao code exchange: %w", err)
	}

	endpoint := c.UserInfoURL
	if endpoint == "" {
		endpoint = kakaoUserInfoURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return identity.RawUserRecord{}, err
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)

	res, err := c.conf.Client(ctx, token).Do(req)
	if err != nil {
		return identity.RawUserRecord{}, fmt.Errorf("kakao user info request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return identity.RawUserRecord{}, ErrVerifyFailed
	}

	var info kakaoUserInfo
	if err := json.NewDecoder(res.Body).Decode(&info); err != nil {
		return identity.RawUserRecord{}, fmt.Errorf("kakao user info decode: %w", err)
	}

	if info.ID == 0 {
		return identity.RawUserRecord{}, ErrVerifyFailed
	}

	return identity.RawUserRecord{
		ID:           identity.FlexID(strconv.FormatInt(info.ID, 10)),
		Email:        info.KakaoAccount.Email,
		NickName:     info.KakaoAccount.Profile.Nickname,
		Picture:      info.KakaoAccount.Profile.ProfileImageURL,
		AuthProvider: string(identity.ProviderKakao),
	}, nil
}
