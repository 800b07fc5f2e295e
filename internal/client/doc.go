// Package client implements the device-sync command line client.
//
// Each command maps onto one [adapter.SyncClient] call. Write commands read
// their JSON body from the input stream so that requests can be piped in;
// results are printed as indented JSON.
package client
