//go:build daqhats

package hat

/*
#cgo LDFLAGS: -ldaqhats
#include <stdlib.h>
#include <daqhats/daqhats.h>
*/
import "C"

import "strings"

// mcc134 is the Driver implementation backed by libdaqhats.
type mcc134 struct{}

// NewDriver returns the MCC 134 driver.
func NewDriver() Driver {
	return &mcc134{}
}

func (*mcc134) List() ([]BoardID, error) {
	count := int(C.hat_list(C.HAT_ID_MCC_134, nil))
	if count <= 0 {
		return nil, nil
	}

	infos := make([]C.struct_HatInfo, count)
	C.hat_list(C.HAT_ID_MCC_134, &infos[0])

	boards := make([]BoardID, 0, count)
	for i := range infos {
		boards = append(boards, BoardID{
			Address: uint8(infos[i].address),
			Product: C.GoString(&infos[i].product_name[0]),
		})
	}

	return boards, nil
}

func (*mcc134) Open(address uint8) error {
	return newResultError("mcc134_open", int(C.mcc134_open(C.uint8_t(address))))
}

func (*mcc134) Close(address uint8) error {
	return newResultError("mcc134_close", int(C.mcc134_close(C.uint8_t(address))))
}

func (*mcc134) IsOpen(address uint8) bool {
	return C.mcc134_is_open(C.uint8_t(address)) != 0
}

func (*mcc134) Serial(address uint8) (string, error) {
	buf := make([]C.char, 16)
	ret := int(C.mcc134_serial(C.uint8_t(address), &buf[0]))
	if err := newResultError("mcc134_serial", ret); err != nil {
		return "", err
	}

	return strings.TrimRight(C.GoString(&buf[0]), " "), nil
}

func (*mcc134) CalibrationDate(address uint8) (string, error) {
	buf := make([]C.char, 16)
	ret := int(C.mcc134_calibration_date(C.uint8_t(address), &buf[0]))
	if err := newResultError("mcc134_calibration_date", ret); err != nil {
		return "", err
	}

	return C.GoString(&buf[0]), nil
}

func (*mcc134) ReadCalibration(address, channel uint8) (Calibration, error) {
	var slope, offset C.double
	ret := int(C.mcc134_calibration_coefficient_read(
		C.uint8_t(address), C.uint8_t(channel), &slope, &offset))
	if err := newResultError("mcc134_calibration_coefficient_read", ret); err != nil {
		return Calibration{}, err
	}

	return Calibration{Slope: float64(slope), Offset: float64(offset)}, nil
}

func (*mcc134) WriteCalibration(address, channel uint8, cal Calibration) error {
	ret := int(C.mcc134_calibration_coefficient_write(
		C.uint8_t(address), C.uint8_t(channel), C.double(cal.Slope), C.double(cal.Offset)))

	return newResultError("mcc134_calibration_coefficient_write", ret)
}

func (*mcc134) UpdateInterval(address uint8) (uint8, error) {
	var interval C.uint8_t
	ret := int(C.mcc134_update_interval_read(C.uint8_t(address), &interval))
	if err := newResultError("mcc134_update_interval_read", ret); err != nil {
		return 0, err
	}

	return uint8(interval), nil
}

func (*mcc134) SetUpdateInterval(address, seconds uint8) error {
	ret := int(C.mcc134_update_interval_write(C.uint8_t(address), C.uint8_t(seconds)))

	return newResultError("mcc134_update_interval_write", ret)
}

func (*mcc134) SetTCType(address, channel uint8, tc TCType) error {
	ret := int(C.mcc134_tc_type_write(C.uint8_t(address), C.uint8_t(channel), C.uint8_t(tc)))

	return newResultError("mcc134_tc_type_write", ret)
}

func (*mcc134) ReadTemperature(address, channel uint8) (float64, error) {
	var value C.double
	ret := int(C.mcc134_t_in_read(C.uint8_t(address), C.uint8_t(channel), &value))
	if err := newResultError("mcc134_t_in_read", ret); err != nil {
		return 0, err
	}

	return float64(value), nil
}

func (*mcc134) ReadVoltage(address, channel uint8) (float64, error) {
	var value C.double
	ret := int(C.mcc134_a_in_read(C.uint8_t(address), C.uint8_t(channel), C.OPTS_DEFAULT, &value))
	if err := newResultError("mcc134_a_in_read", ret); err != nil {
		return 0, err
	}

	return float64(value), nil
}

func (*mcc134) ReadCJC(address, channel uint8) (float64, error) {
	var value C.double
	ret := int(C.mcc134_cjc_read(C.uint8_t(address), C.uint8_t(channel), &value))
	if err := newResultError("mcc134_cjc_read", ret); err != nil {
		return 0, err
	}

	return float64(value), nil
}
