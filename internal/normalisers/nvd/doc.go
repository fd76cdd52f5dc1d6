// Package nvd maps NVD CVE API 2.0 vulnerability items to domain records.
//
// Only the identifier is mandatory. Dates are copied verbatim, descriptions
// are joined with newlines and CVSS base scores degrade to null when the
// metrics block is missing or malformed.
package nvd
