package models

// TorrentProperties is the generic information block from /api/v2/torrents/properties.
type TorrentProperties struct {
	SavePath        string  `json:"save_path"`
	CreationDate    int64   `json:"creation_date"`
	PieceSize       int64   `json:"piece_size"`
	Comment         string  `json:"comment"`
	TotalWasted     int64   `json:"total_wasted"`
	TotalUploaded   int64   `json:"total_uploaded"`
	TotalDownloaded int64   `json:"total_downloaded"`
	UpLimit         int64   `json:"up_limit"`
	DlLimit         int64   `json:"dl_limit"`
	TimeElapsed     int64   `json:"time_elapsed"`
	SeedingTime     int64   `json:"seeding_time"`
	NbConnections   int     `json:"nb_connections"`
	ShareRatio      float64 `json:"share_ratio"`
	AdditionDate    int64   `json:"addition_date"`
	CompletionDate  int64   `json:"completion_date"`
	CreatedBy       string  `json:"created_by"`
	DlSpeedAvg      int64   `json:"dl_speed_avg"`
	UpSpeedAvg      int64   `json:"up_speed_avg"`
	ETA             int64   `json:"eta"`
	Seeds           int     `json:"seeds"`
	SeedsTotal      int     `json:"seeds_total"`
	Peers           int     `json:"peers"`
	PeersTotal      int     `json:"peers_total"`
	TotalSize       int64   `json:"total_size"`
	PiecesHave      int     `json:"pieces_have"`
	PiecesNum       int     `json:"pieces_num"`
}

// TorrentFile is one entry from /api/v2/torrents/files.
type TorrentFile struct {
	Index        int     `json:"index"`
	Name         string  `json:"name"`
	Size         int64   `json:"size"`
	Progress     float64 `json:"progress"`
	Priority     int     `json:"priority"`
	IsSeed       bool    `json:"is_seed"`
	Availability float64 `json:"availability"`
}

// TorrentDetail combines the properties and file list of one torrent.
type TorrentDetail struct {
	Hash       string            `json:"hash"`
	Properties TorrentProperties `json:"properties"`
	Files      []TorrentFile     `json:"files"`
}
