package archive

import "strconv"

// searchResponse mirrors the advancedsearch JSON envelope
type searchResponse struct {
	Response struct {
		NumFound int       `json:"numFound"`
		Docs     []itemDoc `json:"docs"`
	} `json:"response"`
}

type itemDoc struct {
	Identifier string `json:"identifier"`
	Title      string `json:"title"`
}

// filesResponse mirrors the metadata files listing
type filesResponse struct {
	Result []fileDoc `json:"result"`
}

type fileDoc struct {
	Name   string `json:"name"`
	Format string `json:"format"`
	Size   string `json:"size"` // the archive reports sizes as strings
}

func (d fileDoc) sizeBytes() int64 {
	n, err := strconv.ParseInt(d.Size, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
