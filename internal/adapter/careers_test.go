package adapter

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

const careersFixture = `<!DOCTYPE html>
<html>
<body>
	<nav><a href="/">Accueil</a><a href="/jobs/">Tous les postes</a></nav>
	<main>
		<a href="/jobs/category-manager-chocolat"><h3>Category Manager Chocolat</h3><span>Postuler</span></a>
		<a href="/jobs/responsable-export/"><h3>Responsable Export</h3></a>
		<a href="/jobs/category-manager-chocolat">Category Manager Chocolat</a>
		<a href="/about">À propos</a>
	</main>
</body>
</html>`

func TestCareersAdapter_FetchJobs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/jobs" {
			t.Errorf("expected /jobs listing path, got %q", r.URL.Path)
		}
		fmt.Fprint(w, careersFixture)
	}))
	defer server.Close()

	a := NewCareersAdapter("Leonidas", server.URL, http.DefaultClient)

	if got := a.Name(); got != "careers-leonidas" {
		t.Errorf("unexpected adapter name %q", got)
	}

	jobs, err := a.FetchJobs(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The duplicate slug and the non-posting anchors are skipped.
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}

	first := jobs[0]
	if first.ID != "careers-category-manager-chocolat" {
		t.Errorf("unexpected id %q", first.ID)
	}
	// The call-to-action label inside the anchor is stripped from the title.
	if first.Title != "Category Manager Chocolat" {
		t.Errorf("unexpected title %q", first.Title)
	}
	if first.Company != "Leonidas" {
		t.Errorf("unexpected company %q", first.Company)
	}
	if first.URL != server.URL+"/jobs/category-manager-chocolat" {
		t.Errorf("unexpected url %q", first.URL)
	}
	if first.Source != "careers-leonidas" {
		t.Errorf("unexpected source %q", first.Source)
	}

	// Trailing slashes in the href do not leak into the slug.
	if jobs[1].ID != "careers-responsable-export" {
		t.Errorf("unexpected id %q", jobs[1].ID)
	}
}

func TestCareersAdapter_EmptyListing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><p>Aucune offre pour le moment.</p></body></html>`)
	}))
	defer server.Close()

	a := NewCareersAdapter("Leonidas", server.URL, http.DefaultClient)

	jobs, err := a.FetchJobs(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 0 {
		t.Errorf("expected no jobs, got %d", len(jobs))
	}
}

func TestCareersAdapter_HTTPErrorSurfaced(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	a := NewCareersAdapter("Leonidas", server.URL, http.DefaultClient)

	if _, err := a.FetchJobs(context.Background()); err == nil {
		t.Fatal("expected an error on a non-200 response")
	}
}
