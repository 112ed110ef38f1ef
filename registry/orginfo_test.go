package registry

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "screener/server/errors"
)

const orginfoSearchHTML = `<html><body>
<a href="/en/about">About</a>
<a href="/en/organization/toshkent-savdo-mchj">Toshkent Savdo MChJ</a>
<a href="/en/organization/other">Boshqa Korxona</a>
</body></html>`

const orginfoProfileHTML = `<html><body>
<h1 class="h1-seo">Toshkent Savdo MChJ</h1>
<span id="organizationTinValue">305123456</span>
<h5>Management information</h5>
<div><a href="/person/1">Karimov Aziz</a></div>
<h5>Contact information</h5>
<div class="row"><span>Tashkent, Amir Temur 12</span></div>
<h5>Founders</h5>
<div>
  <div class="row"><a href="/org/1">Samarqand Invest MChJ</a> 60%</div>
  <div class="row"><a href="/person/2">Karimov Aziz</a> 40%</div>
</div>
</body></html>`

func orginfoFixture(t *testing.T, pages map[string]string) *OrgInfoClient {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, ok := pages[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprint(w, page)
	}))
	t.Cleanup(server.Close)
	return NewOrgInfoClient(server.URL, 5*time.Second, time.Millisecond)
}

// Тесты для SearchOrganization
func TestSearchOrganization_Match(t *testing.T) {
	client := orginfoFixture(t, map[string]string{
		"/en/search/organizations/": orginfoSearchHTML,
	})

	orgURL, err := client.SearchOrganization(context.Background(), "Toshkent Savdo")
	require.NoError(t, err)
	assert.Equal(t, client.baseURL+"/en/organization/toshkent-savdo-mchj", orgURL)
}

func TestSearchOrganization_CaseInsensitive(t *testing.T) {
	client := orginfoFixture(t, map[string]string{
		"/en/search/organizations/": orginfoSearchHTML,
	})

	orgURL, err := client.SearchOrganization(context.Background(), "toshkent savdo")
	require.NoError(t, err)
	assert.NotEmpty(t, orgURL)
}

func TestSearchOrganization_NoMatch(t *testing.T) {
	client := orginfoFixture(t, map[string]string{
		"/en/search/organizations/": orginfoSearchHTML,
	})

	// Отсутствие совпадения — пустой URL, а не ошибка
	orgURL, err := client.SearchOrganization(context.Background(), "Nukus Textile")
	require.NoError(t, err)
	assert.Empty(t, orgURL)
}

func TestSearchOrganization_EmptyName(t *testing.T) {
	client := orginfoFixture(t, nil)

	_, err := client.SearchOrganization(context.Background(), "  ")
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestSearchOrganization_SourceFailure(t *testing.T) {
	client := orginfoFixture(t, nil) // любой путь ответит 404

	_, err := client.SearchOrganization(context.Background(), "Toshkent Savdo")
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindFetch))
}

// Тесты для FetchOrganization
func TestFetchOrganization_FullProfile(t *testing.T) {
	client := orginfoFixture(t, map[string]string{
		"/en/organization/toshkent-savdo-mchj": orginfoProfileHTML,
	})

	profile, err := client.FetchOrganization(context.Background(),
		client.baseURL+"/en/organization/toshkent-savdo-mchj")
	require.NoError(t, err)

	assert.Equal(t, "Toshkent Savdo MChJ", profile.Name)
	assert.Equal(t, "305123456", profile.TIN)
	assert.Equal(t, "Karimov Aziz", profile.CEO)
	assert.Equal(t, "Tashkent, Amir Temur 12", profile.Address)

	require.Len(t, profile.Founders, 2)

	company := profile.Founders[0]
	assert.Equal(t, "Samarqand Invest MChJ", company.Owner)
	assert.True(t, company.IsCompany)
	require.NotNil(t, company.OwnershipPercentage)
	assert.Equal(t, 60.0, *company.OwnershipPercentage)

	person := profile.Founders[1]
	assert.Equal(t, "Karimov Aziz", person.Owner)
	assert.False(t, person.IsCompany)
	require.NotNil(t, person.OwnershipPercentage)
	assert.Equal(t, 40.0, *person.OwnershipPercentage)
}

func TestFetchOrganization_MissingBlocks(t *testing.T) {
	client := orginfoFixture(t, map[string]string{
		"/en/organization/bare": `<html><body><h1 class="h1-seo">Bare MChJ</h1></body></html>`,
	})

	profile, err := client.FetchOrganization(context.Background(),
		client.baseURL+"/en/organization/bare")
	require.NoError(t, err)

	assert.Equal(t, "Bare MChJ", profile.Name)
	assert.Empty(t, profile.TIN)
	assert.Empty(t, profile.CEO)
	assert.Empty(t, profile.Address)
	assert.Empty(t, profile.Founders)
}

func TestFetchOrganization_EmptyURL(t *testing.T) {
	client := orginfoFixture(t, nil)

	_, err := client.FetchOrganization(context.Background(), "")
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}
