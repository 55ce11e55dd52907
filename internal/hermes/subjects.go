package hermes

const (
	SubjectReportSubmitted = "beacon.report.submitted"
	SubjectIndexRecomputed = "beacon.index.recomputed"
	SubjectWeightsUpdated  = "beacon.weights.updated"

	StreamName   = "BEACON_EVENTS"
	StreamMaxAge = "168h" // 7 days
)

func SubjectReportIngested(id string) string { return "beacon.report." + id + ".ingested" }
func SubjectReportRejected(id string) string { return "beacon.report." + id + ".rejected" }
