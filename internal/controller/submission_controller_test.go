package controller_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unclebandit/campaign-intake/internal/controller"
	"github.com/unclebandit/campaign-intake/internal/docstore"
	"github.com/unclebandit/campaign-intake/internal/form"
	"github.com/unclebandit/campaign-intake/internal/model"
	"github.com/unclebandit/campaign-intake/internal/repository"
	"github.com/unclebandit/campaign-intake/internal/service"
)

// failingRepo rejects every create; other methods are never reached.
type failingRepo struct {
	repository.CampaignRepositoryInterface
}

func (failingRepo) Create(ctx context.Context, s *model.Submission) (*model.Campaign, error) {
	return nil, errors.New("network unreachable")
}

var classAttr = regexp.MustCompile(`class="([^"]*)"`)

// tagByID returns the opening tag of the element with the given id.
func tagByID(t *testing.T, body, id string) string {
	t.Helper()
	i := strings.Index(body, `id="`+id+`"`)
	require.NotEqual(t, -1, i, "element #%s missing", id)
	start := strings.LastIndex(body[:i], "<")
	end := strings.Index(body[i:], ">")
	return body[start : i+end+1]
}

func hasClass(tag, class string) bool {
	m := classAttr.FindStringSubmatch(tag)
	return m != nil && slices.Contains(strings.Fields(m[1]), class)
}

func newController(repo repository.CampaignRepositoryInterface) *controller.SubmissionController {
	return &controller.SubmissionController{Service: &service.SubmissionService{CampaignRepo: repo}}
}

func postForm(values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/campaigns", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func submission() url.Values {
	return url.Values{
		form.FieldBusinessName:  {"Acme"},
		form.FieldDescription:   {"Fresh bread daily"},
		form.FieldCategory:      {"Other"},
		form.FieldCategoryOther: {"Pets"},
		form.FieldTarget:        {"Growth"},
	}
}

func TestFormRendersEmptyPage(t *testing.T) {
	ctrl := newController(failingRepo{})
	w := httptest.NewRecorder()

	ctrl.Form(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	body := w.Body.String()

	for _, id := range []string{"campaignForm", "categorySelect", "targetSelect", "categoryOtherInput", "targetOtherInput", "result"} {
		tagByID(t, body, id)
	}
	assert.True(t, hasClass(tagByID(t, body, "categoryOtherInput"), "hidden"))
	assert.True(t, hasClass(tagByID(t, body, "targetOtherInput"), "hidden"))
	assert.True(t, hasClass(tagByID(t, body, "result"), "hidden"))

	for _, opt := range slices.Concat(form.Categories, form.Targets) {
		assert.Contains(t, body, `<option value="`+opt+`"`)
	}
	assert.Contains(t, tagByID(t, body, "campaignForm"), `action="/campaigns"`)
}

func TestSubmitSuccessResetsForm(t *testing.T) {
	store := docstore.NewMemoryStore()
	repo := &repository.CampaignRepository{Store: store, DatabaseID: "db", CollectionID: "campaigns"}
	ctrl := newController(repo)
	w := httptest.NewRecorder()

	ctrl.Submit(w, postForm(submission()))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()

	result := tagByID(t, body, "result")
	assert.False(t, hasClass(result, "hidden"))
	assert.True(t, hasClass(result, form.ClassPositive))
	assert.False(t, hasClass(result, form.ClassNegative))
	assert.Contains(t, body, form.SuccessText)

	assert.Contains(t, tagByID(t, body, "businessName"), `value=""`)
	assert.True(t, hasClass(tagByID(t, body, "categoryOtherInput"), "hidden"))
	assert.True(t, hasClass(tagByID(t, body, "targetOtherInput"), "hidden"))

	pending, err := repo.ListByStatus(context.Background(), model.StatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "Pets", pending[0].Category)
	assert.Equal(t, "Growth", pending[0].Target)
}

func TestSubmitFailureKeepsValues(t *testing.T) {
	ctrl := newController(failingRepo{})
	w := httptest.NewRecorder()

	ctrl.Submit(w, postForm(submission()))

	require.Equal(t, http.StatusBadGateway, w.Code)
	body := w.Body.String()

	result := tagByID(t, body, "result")
	assert.False(t, hasClass(result, "hidden"))
	assert.True(t, hasClass(result, form.ClassNegative))
	assert.False(t, hasClass(result, form.ClassPositive))
	assert.Contains(t, body, form.FailureText)
	assert.NotContains(t, body, "network unreachable")

	assert.Contains(t, tagByID(t, body, "businessName"), `value="Acme"`)
	assert.Contains(t, body, "Fresh bread daily</textarea>")
	assert.Contains(t, body, `<option value="Other" selected>`)
	assert.Contains(t, body, `<option value="Growth" selected>`)

	categoryOther := tagByID(t, body, "categoryOtherInput")
	assert.False(t, hasClass(categoryOther, "hidden"))
	assert.Contains(t, categoryOther, `value="Pets"`)
	assert.True(t, hasClass(tagByID(t, body, "targetOtherInput"), "hidden"))
}

func TestSubmitJSON(t *testing.T) {
	repo := &repository.CampaignRepository{Store: docstore.NewMemoryStore(), DatabaseID: "db", CollectionID: "campaigns"}

	req := postForm(submission())
	req.Header.Set("Accept", "application/json")
	w := httptest.NewRecorder()
	newController(repo).Submit(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	var res struct {
		OK      bool   `json:"ok"`
		Message string `json:"message"`
		ID      string `json:"id"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&res))
	assert.True(t, res.OK)
	assert.Equal(t, form.SuccessText, res.Message)
	assert.NotEmpty(t, res.ID)

	req = postForm(submission())
	req.Header.Set("Accept", "application/json")
	w = httptest.NewRecorder()
	newController(failingRepo{}).Submit(w, req)

	require.Equal(t, http.StatusBadGateway, w.Code)
	var failed map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&failed))
	assert.Equal(t, false, failed["ok"])
	assert.Equal(t, form.FailureText, failed["message"])
	assert.NotContains(t, failed, "id")
}

func TestSubmitRejectsBadBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/campaigns", strings.NewReader("business_name=%zz"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()

	newController(failingRepo{}).Submit(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConcurrentSubmitsEachCreate(t *testing.T) {
	repo := &repository.CampaignRepository{Store: docstore.NewMemoryStore(), DatabaseID: "db", CollectionID: "campaigns"}
	ctrl := newController(repo)

	done := make(chan int, 2)
	for range 2 {
		go func() {
			w := httptest.NewRecorder()
			ctrl.Submit(w, postForm(submission()))
			done <- w.Code
		}()
	}
	assert.Equal(t, http.StatusOK, <-done)
	assert.Equal(t, http.StatusOK, <-done)

	pending, err := repo.ListByStatus(context.Background(), model.StatusPending)
	require.NoError(t, err)
	assert.Len(t, pending, 2)
}

func TestSubmitMultipartBody(t *testing.T) {
	repo := &repository.CampaignRepository{Store: docstore.NewMemoryStore(), DatabaseID: "db", CollectionID: "campaigns"}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for name, vals := range submission() {
		require.NoError(t, mw.WriteField(name, vals[0]))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/campaigns", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	w := httptest.NewRecorder()
	newController(repo).Submit(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	pending, err := repo.ListByStatus(context.Background(), model.StatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "Acme", pending[0].BusinessName)
	assert.Equal(t, "Fresh bread daily", pending[0].Description)
	assert.Equal(t, "Pets", pending[0].Category)
	assert.Equal(t, "Growth", pending[0].Target)
}

func TestSubmitRejectsBrokenMultipart(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/campaigns", strings.NewReader("not a multipart body"))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=xyz")
	w := httptest.NewRecorder()

	newController(failingRepo{}).Submit(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
