package logs_files

type LogFileDTO struct {
	Name string `json:"name"`
}

type ListLogFilesResponseDTO struct {
	Files []LogFileDTO `json:"files"`
}
