package indexconfig

// Configuration mirrors the index configuration schema: shared steps run
// before every job, and each job names the indexer to run under root.
type Configuration struct {
	SharedSteps []DockerStep `json:"shared_steps"`
	IndexJobs   []IndexJob   `json:"index_jobs"`
}

type IndexJob struct {
	Steps       []DockerStep `json:"steps"`
	LocalSteps  []string     `json:"local_steps"`
	Root        string       `json:"root"`
	Indexer     string       `json:"indexer"`
	IndexerArgs []string     `json:"indexer_args"`
	Outfile     string       `json:"outfile"`
}

type DockerStep struct {
	Root     string   `json:"root"`
	Image    string   `json:"image"`
	Commands []string `json:"commands"`
}
