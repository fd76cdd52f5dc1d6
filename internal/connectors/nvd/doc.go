// Package nvd implements driven.FeedClient for the NVD CVE API 2.0.
//
// The feed is paged with startIndex/resultsPerPage. Each vulnerabilities[]
// item is handed to the normaliser as the verbatim bytes received, so the
// mirror's raw column stores exactly what NVD sent.
package nvd
