package domain

type Status string

const (
	StatusPass Status = "Pass"
	StatusFail Status = "Fail"
)

// FileReport is the measured size of one file matched by a FileConfig.
type FileReport struct {
	Pattern     string
	Path        string
	Size        int64
	MaxSize     *int64
	Compression Compression
	Status      Status
}

type Report struct {
	BaseDir string
	Files   []FileReport
	Status  Status
	// GitVars is nil when only the local analysis ran.
	GitVars *GitVars
}

func newReport(baseDir string, files []FileReport, gitVars *GitVars) Report {
	report := Report{BaseDir: baseDir, Files: files, Status: StatusPass, GitVars: gitVars}
	for i := range report.Files {
		f := &report.Files[i]
		f.Status = StatusPass
		if f.MaxSize != nil && f.Size > *f.MaxSize {
			f.Status = StatusFail
			report.Status = StatusFail
		}
	}
	return report
}
