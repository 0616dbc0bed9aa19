package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/cucumber/godog"

	httpadapter "github.com/boostclient/boostclient-service/internal/adapters/http"
	"github.com/boostclient/boostclient-service/internal/adapters/persistence"
)

// scenario holds the state shared by the steps of one scenario. Every
// scenario runs against its own in-memory database.
type scenario struct {
	api      *testAPI
	response *httptest.ResponseRecorder
	vars     map[string]string
}

func (s *scenario) expand(text string) string {
	for name, value := range s.vars {
		text = strings.ReplaceAll(text, "{"+name+"}", value)
	}

	return text
}

func (s *scenario) remember(name string) error {
	var body struct {
		ID *int64 `json:"id"`
	}

	if err := json.Unmarshal(s.response.Body.Bytes(), &body); err != nil || body.ID == nil {
		return fmt.Errorf("response has no id: %s", s.response.Body.String())
	}

	s.vars[name] = strconv.FormatInt(*body.ID, 10)

	return nil
}

func (s *scenario) create(collection, variable, body string) error {
	s.response = s.api.do(http.MethodPost, "/api/"+collection, "application/json", s.expand(body))
	if s.response.Code != http.StatusCreated {
		return fmt.Errorf("creating %s: status %d: %s", collection, s.response.Code, s.response.Body.String())
	}

	return s.remember(variable)
}

func (s *scenario) anEmployerNamed(name string) error {
	return s.create("employers", "employerId", fmt.Sprintf(`{"name":%q}`, name))
}

func (s *scenario) aQuoteForThatEmployer(name, date string) error {
	return s.create("quotes", "quoteId",
		fmt.Sprintf(`{"name":%q,"quoteDate":%q,"employer":{"id":{employerId}}}`, name, date))
}

func (s *scenario) anEmployeeOfThatEmployer(name, date string) error {
	return s.create("employees", "employeeId",
		fmt.Sprintf(`{"name":%q,"dateOfBirth":%q,"employer":{"id":{employerId}}}`, name, date))
}

func (s *scenario) iSend(method, target string) error {
	s.response = s.api.do(method, s.expand(target), "", nil)
	return nil
}

func (s *scenario) iSendWithBody(method, target string, body *godog.DocString) error {
	contentType := "application/json"
	if method == http.MethodPatch {
		contentType = httpadapter.MediaTypeMergePatch
	}

	return s.iSendAsWithBody(method, target, contentType, body)
}

func (s *scenario) iSendAsWithBody(method, target, contentType string, body *godog.DocString) error {
	s.response = s.api.do(method, s.expand(target), contentType, s.expand(body.Content))
	return nil
}

func (s *scenario) theStatusShouldBe(code int) error {
	if s.response.Code != code {
		return fmt.Errorf("expected status %d, got %d: %s", code, s.response.Code, s.response.Body.String())
	}

	return nil
}

func (s *scenario) theHeaderShouldBe(name, want string) error {
	if got := s.response.Header().Get(name); got != s.expand(want) {
		return fmt.Errorf("header %s: expected %q, got %q", name, s.expand(want), got)
	}

	return nil
}

// theFieldShouldBe compares a dotted path into the JSON body, such as
// "employer.name" or "0.id", with the expected text.
func (s *scenario) theFieldShouldBe(field, want string) error {
	var doc any
	if err := json.Unmarshal(s.response.Body.Bytes(), &doc); err != nil {
		return fmt.Errorf("response is not JSON: %w", err)
	}

	value, err := lookup(doc, field)
	if err != nil {
		return err
	}

	if got := fmt.Sprint(value); got != s.expand(want) {
		return fmt.Errorf("field %s: expected %q, got %q", field, s.expand(want), got)
	}

	return nil
}

func (s *scenario) theListShouldHaveItems(n int) error {
	var items []json.RawMessage
	if err := json.Unmarshal(s.response.Body.Bytes(), &items); err != nil {
		return fmt.Errorf("response is not a list: %w", err)
	}

	if len(items) != n {
		return fmt.Errorf("expected %d items, got %d", n, len(items))
	}

	return nil
}

func (s *scenario) thereShouldBeRows(n int, table string) error {
	var count int64
	if err := s.api.db.Table(table).Count(&count).Error; err != nil {
		return err
	}

	if count != int64(n) {
		return fmt.Errorf("expected %d rows in %s, got %d", n, table, count)
	}

	return nil
}

func lookup(doc any, field string) (any, error) {
	current := doc

	for _, part := range strings.Split(field, ".") {
		switch node := current.(type) {
		case map[string]any:
			value, ok := node[part]
			if !ok {
				return nil, fmt.Errorf("field %s: %q is missing", field, part)
			}

			current = value
		case []any:
			i, err := strconv.Atoi(part)
			if err != nil || i < 0 || i >= len(node) {
				return nil, fmt.Errorf("field %s: bad index %q", field, part)
			}

			current = node[i]
		default:
			return nil, fmt.Errorf("field %s: cannot descend into %T", field, current)
		}
	}

	return current, nil
}

func initializeScenario(ctx *godog.ScenarioContext) {
	s := &scenario{}

	ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		api, err := buildTestAPI()
		if err != nil {
			return ctx, err
		}

		s.api = api
		s.response = nil
		s.vars = make(map[string]string)

		return ctx, nil
	})

	ctx.After(func(ctx context.Context, _ *godog.Scenario, err error) (context.Context, error) {
		if s.api != nil {
			_ = persistence.Close(s.api.db)
		}

		return ctx, err
	})

	ctx.Step(`^an employer named "([^"]*)"$`, s.anEmployerNamed)
	ctx.Step(`^a quote named "([^"]*)" dated "([^"]*)" for that employer$`, s.aQuoteForThatEmployer)
	ctx.Step(`^an employee named "([^"]*)" born "([^"]*)" working for that employer$`, s.anEmployeeOfThatEmployer)
	ctx.Step(`^I send (GET|DELETE|PUT|PATCH) "([^"]*)"$`, s.iSend)
	ctx.Step(`^I send (POST|PUT|PATCH) "([^"]*)" with body:$`, s.iSendWithBody)
	ctx.Step(`^I send (POST|PUT|PATCH) "([^"]*)" as "([^"]*)" with body:$`, s.iSendAsWithBody)
	ctx.Step(`^the response status should be (\d+)$`, s.theStatusShouldBe)
	ctx.Step(`^the response header "([^"]*)" should be "([^"]*)"$`, s.theHeaderShouldBe)
	ctx.Step(`^the response field "([^"]*)" should be "([^"]*)"$`, s.theFieldShouldBe)
	ctx.Step(`^the response should be a list of (\d+) items?$`, s.theListShouldHaveItems)
	ctx.Step(`^there should be (\d+) rows? in "([^"]*)"$`, s.thereShouldBeRows)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: initializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
			Tags:     os.Getenv("GODOG_TAGS"),
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
