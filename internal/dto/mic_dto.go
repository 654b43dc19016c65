package dto

// MICFields mirrors the fixed, numbered layout of the MIC/DTA form.
// Every field is text; PDF rendering expects "" rather than null.
type MICFields struct {
	Campo1Transporte       string `json:"campo_1_transporte"`
	Campo2Numero           string `json:"campo_2_numero"`
	Campo3Transporte       string `json:"campo_3_transporte"`
	Campo4Estado           string `json:"campo_4_estado"`
	Campo5Hoja             string `json:"campo_5_hoja"`
	Campo6Fecha            string `json:"campo_6_fecha"`
	Campo7PtoSeguro        string `json:"campo_7_pto_seguro"`
	Campo8Destino          string `json:"campo_8_destino"`
	Campo9DatosTransporte  string `json:"campo_9_datos_transporte"`
	Campo10Numero          string `json:"campo_10_numero"`
	Campo11Placa           string `json:"campo_11_placa"`
	Campo12ModeloChasis    string `json:"campo_12_modelo_chasis"`
	Campo13Siempre45       string `json:"campo_13_siempre_45"`
	Campo14Anio            string `json:"campo_14_anio"`
	Campo15PlacaSemi       string `json:"campo_15_placa_semi"`
	Campo16Asteriscos1     string `json:"campo_16_asteriscos_1"`
	Campo17Asteriscos2     string `json:"campo_17_asteriscos_2"`
	Campo18Asteriscos3     string `json:"campo_18_asteriscos_3"`
	Campo19Asteriscos4     string `json:"campo_19_asteriscos_4"`
	Campo20Asteriscos5     string `json:"campo_20_asteriscos_5"`
	Campo21Asteriscos6     string `json:"campo_21_asteriscos_6"`
	Campo22Asteriscos7     string `json:"campo_22_asteriscos_7"`
	Campo23NumeroCampo2CRT string `json:"campo_23_numero_campo2_crt"`
	Campo24Aduana          string `json:"campo_24_aduana"`
	Campo25Moneda          string `json:"campo_25_moneda"`
	Campo26Pais            string `json:"campo_26_pais"`
	Campo27ValorCampo16    string `json:"campo_27_valor_campo16"`
	Campo28Total           string `json:"campo_28_total"`
	Campo29Seguro          string `json:"campo_29_seguro"`
	Campo30TipoBultos      string `json:"campo_30_tipo_bultos"`
	Campo31Cantidad        string `json:"campo_31_cantidad"`
	Campo32PesoBruto       string `json:"campo_32_peso_bruto"`
	Campo33DatosCampo1CRT  string `json:"campo_33_datos_campo1_crt"`
	Campo34DatosCampo4CRT  string `json:"campo_34_datos_campo4_crt"`
	Campo35DatosCampo6CRT  string `json:"campo_35_datos_campo6_crt"`
	Campo36FacturaDespacho string `json:"campo_36_factura_despacho"`
	Campo37ValorManual     string `json:"campo_37_valor_manual"`
	Campo38DatosCampo11CRT string `json:"campo_38_datos_campo11_crt"`
	Campo39                string `json:"campo_39"`
	Campo40Tramo           string `json:"campo_40_tramo"`
	Chofer                 string `json:"chofer"`
}

// ─── Filter / List ──────────────────────────────────────────────────────────

type MICFilter struct {
	CRTID  string `form:"crt_id"            validate:"omitempty,uuid"`
	Estado string `form:"estado"`
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=500"`
}

type MICListResponse struct {
	Items []MICResponse `json:"items"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type MICResponse struct {
	ID        string `json:"id"`
	CRTID     string `json:"crt_id"`
	CreatedAt string `json:"created_at"`
	MICFields
}

// CrearMICResponse answers POST /api/mic-guardados/crear-desde-crt/{crtId}.
type CrearMICResponse struct {
	ID      string `json:"id"`
	PDFURL  string `json:"pdf_url"`
	Message string `json:"message"`
}

// EnviarMICRequest is the body of POST /api/mic-guardados/{id}/enviar.
type EnviarMICRequest struct {
	Email string `json:"email" validate:"required,email"`
}
