package mcp

// Partial views of Dynatrace API responses. Only the fields rendered by the
// tools are decoded; every field is a pointer so that an environment which
// omits it can be told apart from one that returns a zero value.

func get[T any](p *T) (T, bool) {
	if p == nil {
		var zero T
		return zero, false
	}
	return *p, true
}

type clusterVersion struct {
	Version *string `json:"version"`
}

func (c clusterVersion) GetVersion() (string, bool) { return get(c.Version) }

type problemList struct {
	TotalCount *int      `json:"totalCount"`
	Problems   []problem `json:"problems"`
}

func (l problemList) GetTotalCount() (int, bool) { return get(l.TotalCount) }

type problem struct {
	ProblemID     *string `json:"problemId"`
	DisplayID     *string `json:"displayId"`
	Title         *string `json:"title"`
	Status        *string `json:"status"`
	SeverityLevel *string `json:"severityLevel"`
	ImpactLevel   *string `json:"impactLevel"`
	StartTime     *int64  `json:"startTime"`
}

func (p problem) GetProblemID() (string, bool)     { return get(p.ProblemID) }
func (p problem) GetDisplayID() (string, bool)     { return get(p.DisplayID) }
func (p problem) GetTitle() (string, bool)         { return get(p.Title) }
func (p problem) GetStatus() (string, bool)        { return get(p.Status) }
func (p problem) GetSeverityLevel() (string, bool) { return get(p.SeverityLevel) }
func (p problem) GetImpactLevel() (string, bool)   { return get(p.ImpactLevel) }
func (p problem) GetStartTime() (int64, bool)      { return get(p.StartTime) }

type securityProblemList struct {
	TotalCount       *int              `json:"totalCount"`
	SecurityProblems []securityProblem `json:"securityProblems"`
}

func (l securityProblemList) GetTotalCount() (int, bool) { return get(l.TotalCount) }

type securityProblem struct {
	SecurityProblemID *string         `json:"securityProblemId"`
	DisplayID         *string         `json:"displayId"`
	Title             *string         `json:"title"`
	Status            *string         `json:"status"`
	RiskAssessment    *riskAssessment `json:"riskAssessment"`
}

type riskAssessment struct {
	RiskLevel *string  `json:"riskLevel"`
	RiskScore *float64 `json:"riskScore"`
}

func (s securityProblem) GetSecurityProblemID() (string, bool) { return get(s.SecurityProblemID) }
func (s securityProblem) GetDisplayID() (string, bool)         { return get(s.DisplayID) }
func (s securityProblem) GetTitle() (string, bool)             { return get(s.Title) }
func (s securityProblem) GetStatus() (string, bool)            { return get(s.Status) }

func (s securityProblem) GetRiskLevel() (string, bool) {
	if s.RiskAssessment == nil {
		return "", false
	}
	return get(s.RiskAssessment.RiskLevel)
}

func (s securityProblem) GetRiskScore() (float64, bool) {
	if s.RiskAssessment == nil {
		return 0, false
	}
	return get(s.RiskAssessment.RiskScore)
}

type entityList struct {
	TotalCount *int     `json:"totalCount"`
	Entities   []entity `json:"entities"`
}

func (l entityList) GetTotalCount() (int, bool) { return get(l.TotalCount) }

type entity struct {
	EntityID    *string `json:"entityId"`
	DisplayName *string `json:"displayName"`
	Type        *string `json:"type"`
}

func (e entity) GetEntityID() (string, bool)    { return get(e.EntityID) }
func (e entity) GetDisplayName() (string, bool) { return get(e.DisplayName) }
func (e entity) GetType() (string, bool)        { return get(e.Type) }

type metricDescriptorList struct {
	TotalCount *int               `json:"totalCount"`
	Metrics    []metricDescriptor `json:"metrics"`
}

func (l metricDescriptorList) GetTotalCount() (int, bool) { return get(l.TotalCount) }

type metricDescriptor struct {
	MetricID    *string `json:"metricId"`
	DisplayName *string `json:"displayName"`
	Unit        *string `json:"unit"`
}

func (m metricDescriptor) GetMetricID() (string, bool)    { return get(m.MetricID) }
func (m metricDescriptor) GetDisplayName() (string, bool) { return get(m.DisplayName) }
func (m metricDescriptor) GetUnit() (string, bool)        { return get(m.Unit) }

type metricQueryResult struct {
	Resolution *string            `json:"resolution"`
	Result     []metricSeriesList `json:"result"`
}

func (r metricQueryResult) GetResolution() (string, bool) { return get(r.Resolution) }

type metricSeriesList struct {
	MetricID *string        `json:"metricId"`
	Data     []metricSeries `json:"data"`
}

func (l metricSeriesList) GetMetricID() (string, bool) { return get(l.MetricID) }

type metricSeries struct {
	Dimensions []string   `json:"dimensions"`
	Timestamps []int64    `json:"timestamps"`
	Values     []*float64 `json:"values"`
}

// GetLastValue returns the most recent non-null data point.
func (s metricSeries) GetLastValue() (float64, bool) {
	for i := len(s.Values) - 1; i >= 0; i-- {
		if s.Values[i] != nil {
			return *s.Values[i], true
		}
	}
	return 0, false
}

type eventList struct {
	TotalCount *int    `json:"totalCount"`
	Events     []event `json:"events"`
}

func (l eventList) GetTotalCount() (int, bool) { return get(l.TotalCount) }

type event struct {
	EventID   *string `json:"eventId"`
	EventType *string `json:"eventType"`
	Title     *string `json:"title"`
	Status    *string `json:"status"`
	StartTime *int64  `json:"startTime"`
}

func (e event) GetEventID() (string, bool)   { return get(e.EventID) }
func (e event) GetEventType() (string, bool) { return get(e.EventType) }
func (e event) GetTitle() (string, bool)     { return get(e.Title) }
func (e event) GetStatus() (string, bool)    { return get(e.Status) }
func (e event) GetStartTime() (int64, bool)  { return get(e.StartTime) }

type logSearchResult struct {
	SliceSize    *int        `json:"sliceSize"`
	NextSliceKey *string     `json:"nextSliceKey"`
	Results      []logRecord `json:"results"`
}

func (r logSearchResult) GetSliceSize() (int, bool)       { return get(r.SliceSize) }
func (r logSearchResult) GetNextSliceKey() (string, bool) { return get(r.NextSliceKey) }

type logRecord struct {
	Timestamp *int64  `json:"timestamp"`
	Status    *string `json:"status"`
	Content   *string `json:"content"`
}

func (r logRecord) GetTimestamp() (int64, bool) { return get(r.Timestamp) }
func (r logRecord) GetStatus() (string, bool)   { return get(r.Status) }
func (r logRecord) GetContent() (string, bool)  { return get(r.Content) }

type sloList struct {
	TotalCount *int  `json:"totalCount"`
	SLOs       []slo `json:"slo"`
}

func (l sloList) GetTotalCount() (int, bool) { return get(l.TotalCount) }

type slo struct {
	ID                  *string  `json:"id"`
	Name                *string  `json:"name"`
	Status              *string  `json:"status"`
	EvaluatedPercentage *float64 `json:"evaluatedPercentage"`
	Target              *float64 `json:"target"`
	ErrorBudget         *float64 `json:"errorBudget"`
}

func (s slo) GetID() (string, bool)                   { return get(s.ID) }
func (s slo) GetName() (string, bool)                 { return get(s.Name) }
func (s slo) GetStatus() (string, bool)               { return get(s.Status) }
func (s slo) GetEvaluatedPercentage() (float64, bool) { return get(s.EvaluatedPercentage) }
func (s slo) GetTarget() (float64, bool)              { return get(s.Target) }
func (s slo) GetErrorBudget() (float64, bool)         { return get(s.ErrorBudget) }
