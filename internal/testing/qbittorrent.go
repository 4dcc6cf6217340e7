package testing

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/desertthunder/qbx/internal/models"
)

// FakeQBittorrent emulates the collaborator endpoints qbx calls. Serve it with [httptest.NewServer].
//
// Login succeeds only for Username/Password and then sets the SID cookie; the other endpoints answer 403
// unless that cookie is presented.
type FakeQBittorrent struct {
	Username     string
	Password     string
	SID          string
	Torrents     []models.Torrent
	TorrentsBody string // raw body for torrents/info, overrides Torrents
	LoginStatus  int    // forced login status when non-zero
	AddStatus    int    // forced add status when non-zero
	Version      string
	Files        map[string][]models.TorrentFile // keyed by hash

	mu     sync.Mutex
	added  []string
	logins int
}

// NewFakeQBittorrent returns a fake accepting admin/adminadmin.
func NewFakeQBittorrent() *FakeQBittorrent {
	return &FakeQBittorrent{
		Username: "admin",
		Password: "adminadmin",
		SID:      "test-sid",
		Version:  "v4.6.2",
	}
}

// Added returns the URLs accepted by torrents/add.
func (f *FakeQBittorrent) Added() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.added...)
}

// Logins returns how many login requests were received.
func (f *FakeQBittorrent) Logins() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.logins
}

func (f *FakeQBittorrent) torrent(hash string) (models.Torrent, bool) {
	for _, t := range f.Torrents {
		if hash != "" && t.Hash == hash {
			return t, true
		}
	}
	return models.Torrent{}, false
}

func (f *FakeQBittorrent) authorized(r *http.Request) bool {
	c, err := r.Cookie("SID")
	return err == nil && c.Value != "" && c.Value == f.SID
}

func (f *FakeQBittorrent) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/api/v2/auth/login":
		f.mu.Lock()
		f.logins++
		f.mu.Unlock()

		if r.Method != http.MethodPost {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		if f.LoginStatus != 0 && f.LoginStatus != http.StatusOK {
			http.Error(w, "Forbidden", f.LoginStatus)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
		if r.PostForm.Get("username") != f.Username || r.PostForm.Get("password") != f.Password {
			w.Write([]byte("Fails."))
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "SID", Value: f.SID, Path: "/", HttpOnly: true})
		w.Write([]byte("Ok."))

	case "/api/v2/torrents/info":
		if !f.authorized(r) {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if f.TorrentsBody != "" {
			w.Write([]byte(f.TorrentsBody))
			return
		}
		torrents := f.Torrents
		if torrents == nil {
			torrents = []models.Torrent{}
		}
		json.NewEncoder(w).Encode(torrents)

	case "/api/v2/torrents/add":
		if !f.authorized(r) {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		if f.AddStatus != 0 && f.AddStatus != http.StatusOK {
			http.Error(w, "Fails.", f.AddStatus)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		f.added = append(f.added, r.PostForm.Get("urls"))
		f.mu.Unlock()
		w.Write([]byte("Ok."))

	case "/api/v2/torrents/properties":
		if !f.authorized(r) {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		t, ok := f.torrent(r.URL.Query().Get("hash"))
		if !ok {
			http.Error(w, "Not Found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(models.TorrentProperties{
			SavePath:       t.SavePath,
			TotalSize:      t.TotalSize,
			AdditionDate:   t.AddedOn,
			CompletionDate: t.CompletionOn,
			ShareRatio:     t.Ratio,
			ETA:            t.ETA,
			Seeds:          t.NumSeeds,
			Peers:          t.NumLeechs,
		})

	case "/api/v2/torrents/files":
		if !f.authorized(r) {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		hash := r.URL.Query().Get("hash")
		if _, ok := f.torrent(hash); !ok {
			http.Error(w, "Not Found", http.StatusNotFound)
			return
		}
		files := f.Files[hash]
		if files == nil {
			files = []models.TorrentFile{}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(files)

	case "/api/v2/app/version":
		if !f.authorized(r) {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		w.Write([]byte(f.Version))

	default:
		http.NotFound(w, r)
	}
}
