package models

// Entry of a BDBag remote file manifest.
type RemoteFile struct {
	URL      string `json:"url"`
	Length   int64  `json:"length"`
	Filename string `json:"filename"`
	MD5      string `json:"md5,omitempty"`
}
