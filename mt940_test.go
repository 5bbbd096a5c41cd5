/*
Copyright 2024 Recon Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package recon

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helgekrogh/recon/internal/reconerror"
)

const mt940Sample = `:20:STMT-2024-01
:25:DE89370400440532013000
:28C:1/1
:60F:C240114EUR1000,00
:61:240115C150,00NTRF INV-1
:86:Payment for INV-1
:61:2401160116D75,50NDDT
:86:SEPA direct debit
:62F:C240116EUR1074,50
`

func TestParseMT940DateConversion(t *testing.T) {
	reconciler := newTestReconciler(t)

	movements, err := reconciler.ParseStatement([]byte(mt940Sample), FormatMT940)
	require.NoError(t, err)
	require.Len(t, movements, 2)

	// 240115 converts to 2024-01-15 with the 20YY century convention.
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), movements[0].BookingDate)
	assert.Equal(t, time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC), movements[1].BookingDate)
}

func TestParseMT940AmountsAndSigns(t *testing.T) {
	reconciler := newTestReconciler(t)

	movements, err := reconciler.ParseStatement([]byte(mt940Sample), FormatMT940)
	require.NoError(t, err)
	require.Len(t, movements, 2)

	assert.True(t, movements[0].Amount.Equal(decimal.RequireFromString("150.00")))
	assert.True(t, movements[1].Amount.Equal(decimal.RequireFromString("-75.50")))
	assert.Equal(t, "EUR", movements[0].Currency)
}

func TestParseMT940Remittance(t *testing.T) {
	reconciler := newTestReconciler(t)

	movements, err := reconciler.ParseStatement([]byte(mt940Sample), FormatMT940)
	require.NoError(t, err)
	require.Len(t, movements, 2)

	assert.Equal(t, "Payment for INV-1", movements[0].RemittanceInfo)
	assert.Equal(t, "SEPA direct debit", movements[1].RemittanceInfo)
	// The tail of the :61: line carries the transaction type and reference.
	assert.Equal(t, "NTRF INV-1", movements[0].Reference)
}

func TestParseMT940MultilineRemittanceStopsAtNextTag(t *testing.T) {
	reconciler := newTestReconciler(t)
	doc := ":61:240115C10,00NTRF\n:86:line one\nline two\n:62F:C240115EUR10,00\n"

	movements, err := reconciler.ParseStatement([]byte(doc), FormatMT940)
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, "line one line two", movements[0].RemittanceInfo)
}

func TestParseMT940SkipsLineWithoutAmount(t *testing.T) {
	reconciler := newTestReconciler(t)
	doc := ":61:240115CNOAMOUNT\n:86:broken\n:61:240116C25,00NTRF\n:86:good\n"

	movements, err := reconciler.ParseStatement([]byte(doc), FormatMT940)
	require.NoError(t, err)
	// The amountless line is dropped, matching the CAMT skip policy.
	require.Len(t, movements, 1)
	assert.True(t, movements[0].Amount.Equal(decimal.RequireFromString("25.00")))
}

func TestParseMT940BadDateFallsBackToToday(t *testing.T) {
	reconciler := newTestReconciler(t)
	doc := ":61:BADDATEC30,00NTRF\n:86:no date\n"

	movements, err := reconciler.ParseStatement([]byte(doc), FormatMT940)
	require.NoError(t, err)
	require.Len(t, movements, 1)

	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	assert.Equal(t, today, movements[0].BookingDate)
	assert.True(t, movements[0].Amount.Equal(decimal.RequireFromString("30.00")))
}

func TestParseMT940ReversalMarker(t *testing.T) {
	reconciler := newTestReconciler(t)
	doc := ":61:240115RD42,00NTRF\n"

	movements, err := reconciler.ParseStatement([]byte(doc), FormatMT940)
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.True(t, movements[0].Amount.Equal(decimal.RequireFromString("-42.00")))
}

func TestParseMT940EmptyDocument(t *testing.T) {
	reconciler := newTestReconciler(t)

	movements, err := reconciler.ParseStatement([]byte(":20:STMT\n:62F:C240116EUR0,00\n"), FormatMT940)
	require.NoError(t, err)
	assert.Empty(t, movements)
}

func TestParseMT940InvalidText(t *testing.T) {
	reconciler := newTestReconciler(t)

	_, err := reconciler.ParseStatement([]byte{0xff, 0xfe, 0xfd}, FormatMT940)
	require.Error(t, err)
	assert.True(t, reconerror.HasCode(err, reconerror.ErrParse))
}
