// Package network reports upstream connectivity.
//
// GET /api/network/check checks each configured URL through the outbound
// client's executor and reports which ones answered. Successful answers may
// be served from the response cache when it is enabled.
package network
